package entity

import "time"

const (
	ConditionNew        = "New"
	ConditionGood       = "Good"
	ConditionAcceptable = "Acceptable"
)

// Book is a textbook listing. Status mirrors the seller's toggle: true means
// the copy is available for pickup, false means it is gone or on hold.
// Price is kept as entered by the seller; it is display text, not a number.
type Book struct {
	ID          string    `json:"id" firestore:"id"`
	Title       string    `json:"title" firestore:"title"`
	Author      string    `json:"author" firestore:"author"`
	ISBN        string    `json:"isbn" firestore:"isbn"`
	Description string    `json:"description" firestore:"description"`
	Condition   string    `json:"condition" firestore:"condition"`
	Course      string    `json:"course" firestore:"course"`
	Price       string    `json:"price" firestore:"price"`
	CoverURL    string    `json:"cover_url" firestore:"coverUrl"`
	SellerID    string    `json:"seller_id" firestore:"sellerId"`
	Status      bool      `json:"status" firestore:"status"`
	CreatedAt   time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt   time.Time `json:"updated_at" firestore:"updatedAt"`
}
