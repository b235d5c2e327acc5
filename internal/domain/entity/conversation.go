package entity

import "time"

// LastMessage is a denormalized copy of the newest message in a conversation,
// kept on the parent document so conversation lists render without reading the
// message sub-collection. Its timestamp is server-stamped like the message's
// own, so the preview never disagrees with the stream under clock skew.
type LastMessage struct {
	Text      string    `json:"text" firestore:"text"`
	SenderID  string    `json:"sender_id" firestore:"senderId"`
	CreatedAt time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}

// Conversation is a direct channel between exactly two users. Its document ID
// is derived from the sorted participant pair, so a pair can never produce two
// conversations regardless of which side creates first.
type Conversation struct {
	ID           string      `json:"id" firestore:"id"`
	Participants []string    `json:"participants" firestore:"participants"`
	LastMessage  LastMessage `json:"last_message" firestore:"lastMessage"`
	CreatedAt    time.Time   `json:"created_at" firestore:"createdAt"`
}

type Message struct {
	ID             string    `json:"id" firestore:"id"`
	ConversationID string    `json:"conversation_id" firestore:"conversationId"`
	SenderID       string    `json:"sender_id" firestore:"senderId"`
	Text           string    `json:"text" firestore:"text"`
	Read           bool      `json:"read" firestore:"read"`
	CreatedAt      time.Time `json:"created_at" firestore:"createdAt,serverTimestamp"`
}
