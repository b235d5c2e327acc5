package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

type firestoreConversationRepository struct {
	client *firestore.Client
}

func NewFirestoreConversationRepository(client *firestore.Client) repository.ConversationRepository {
	return &firestoreConversationRepository{
		client: client,
	}
}

func (r *firestoreConversationRepository) Create(ctx context.Context, conversation *entity.Conversation) error {
	if conversation.CreatedAt.IsZero() {
		conversation.CreatedAt = time.Now()
	}

	// Create (not Set) so two racing participants cannot both insert under the
	// same pair-derived ID; the loser sees CONFLICT and re-reads.
	_, err := r.client.Collection("conversations").Doc(conversation.ID).Create(ctx, conversation)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Conversation already exists")
		}
		return errors.Internal("Failed to create conversation", err)
	}

	return nil
}

func (r *firestoreConversationRepository) GetByID(ctx context.Context, id string) (*entity.Conversation, error) {
	doc, err := r.client.Collection("conversations").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Conversation", err)
		}
		return nil, errors.Internal("Failed to get conversation", err)
	}

	var conversation entity.Conversation
	if err := doc.DataTo(&conversation); err != nil {
		return nil, errors.Internal("Failed to parse conversation data", err)
	}
	conversation.ID = doc.Ref.ID

	return &conversation, nil
}

func (r *firestoreConversationRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	query := r.client.Collection("conversations").Where("participants", "array-contains", userID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to fetch conversations", err)
	}

	var conversations []*entity.Conversation
	for _, doc := range docs {
		var conversation entity.Conversation
		if err := doc.DataTo(&conversation); err != nil {
			log.Printf("Error parsing conversation data for user %s: %v", userID, err)
			continue
		}
		conversation.ID = doc.Ref.ID
		conversations = append(conversations, &conversation)
	}

	return conversations, nil
}

func (r *firestoreConversationRepository) UpdateLastMessage(ctx context.Context, conversationID string, last entity.LastMessage) error {
	_, err := r.client.Collection("conversations").Doc(conversationID).Update(ctx, []firestore.Update{
		{Path: "lastMessage", Value: last},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Conversation", err)
		}
		return errors.Internal("Failed to update last message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) CreateMessage(ctx context.Context, message *entity.Message) error {
	messages := r.client.Collection("conversations").Doc(message.ConversationID).Collection("messages")
	if message.ID == "" {
		message.ID = messages.NewDoc().ID
	}

	_, err := messages.Doc(message.ID).Set(ctx, message)
	if err != nil {
		return errors.Internal("Failed to create message", err)
	}

	return nil
}

func (r *firestoreConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error) {
	query := r.client.Collection("conversations").Doc(conversationID).Collection("messages").
		OrderBy("createdAt", firestore.Asc)

	iter := query.Documents(ctx)
	var messages []*entity.Message

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreConversationRepository) ListUnreadMessages(ctx context.Context, conversationID, excludeSenderID string) ([]*entity.Message, error) {
	query := r.client.Collection("conversations").Doc(conversationID).Collection("messages").
		Where("read", "==", false).
		Where("senderId", "!=", excludeSenderID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Internal("Failed to query unread messages", err)
	}

	var messages []*entity.Message
	for _, doc := range docs {
		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			log.Printf("Error parsing message %s in conversation %s: %v", doc.Ref.ID, conversationID, err)
			continue
		}
		message.ID = doc.Ref.ID
		messages = append(messages, &message)
	}

	return messages, nil
}

func (r *firestoreConversationRepository) MarkMessageRead(ctx context.Context, conversationID, messageID string) error {
	docRef := r.client.Collection("conversations").Doc(conversationID).Collection("messages").Doc(messageID)
	_, err := docRef.Update(ctx, []firestore.Update{
		{Path: "read", Value: true},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Message", err)
		}
		return errors.Internal("Failed to mark message as read", err)
	}

	return nil
}

func (r *firestoreConversationRepository) WatchByUserID(ctx context.Context, userID string) (<-chan []*entity.Conversation, error) {
	query := r.client.Collection("conversations").Where("participants", "array-contains", userID)
	snapshots := query.Snapshots(ctx)

	out := make(chan []*entity.Conversation, 1)

	go func() {
		defer close(out)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Conversation listener for user %s failed: %v", userID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to materialize conversation snapshot for user %s: %v", userID, err)
				return
			}

			conversations := make([]*entity.Conversation, 0, len(docs))
			for _, doc := range docs {
				var conversation entity.Conversation
				if err := doc.DataTo(&conversation); err != nil {
					log.Printf("Error parsing conversation %s: %v", doc.Ref.ID, err)
					continue
				}
				conversation.ID = doc.Ref.ID
				conversations = append(conversations, &conversation)
			}

			select {
			case out <- conversations:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

func (r *firestoreConversationRepository) WatchMessages(ctx context.Context, conversationID string) (<-chan []*entity.Message, error) {
	query := r.client.Collection("conversations").Doc(conversationID).Collection("messages").
		OrderBy("createdAt", firestore.Asc)
	snapshots := query.Snapshots(ctx)

	out := make(chan []*entity.Message, 1)

	go func() {
		defer close(out)
		defer snapshots.Stop()

		for {
			snap, err := snapshots.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Message listener for conversation %s failed: %v", conversationID, err)
				}
				return
			}

			docs, err := snap.Documents.GetAll()
			if err != nil {
				log.Printf("Failed to materialize message snapshot for conversation %s: %v", conversationID, err)
				return
			}

			messages := make([]*entity.Message, 0, len(docs))
			for _, doc := range docs {
				var message entity.Message
				if err := doc.DataTo(&message); err != nil {
					log.Printf("Error parsing message %s: %v", doc.Ref.ID, err)
					continue
				}
				message.ID = doc.Ref.ID
				messages = append(messages, &message)
			}

			select {
			case out <- messages:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}
