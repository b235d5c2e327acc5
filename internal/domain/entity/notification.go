package entity

import "time"

const (
	NotificationTypeBookAvailability = "book_availability"
	NotificationTypeChat             = "chat"
	NotificationTypeDeveloper        = "developer"
	NotificationTypeOther            = "other"
)

type Notification struct {
	ID        string    `json:"id" firestore:"id"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Title     string    `json:"title" firestore:"title"`
	Message   string    `json:"message" firestore:"message"`
	Read      bool      `json:"read" firestore:"read"`
	Type      string    `json:"type" firestore:"type"`
	BookID    string    `json:"book_id,omitempty" firestore:"bookId,omitempty"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
