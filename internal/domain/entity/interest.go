package entity

import "time"

// Interest records "notify me when a copy of this ISBN becomes available".
// At most one record exists per (ISBN, user) pair.
type Interest struct {
	ID        string    `json:"id" firestore:"id"`
	ISBN      string    `json:"isbn" firestore:"isbn"`
	UserID    string    `json:"user_id" firestore:"userId"`
	Timestamp time.Time `json:"timestamp" firestore:"timestamp,serverTimestamp"`
}
