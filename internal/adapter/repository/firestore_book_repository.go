package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

// prefixSentinel is the highest code point Firestore orders after any string
// sharing the prefix, bounding a starts-with range query.
const prefixSentinel = "\uf8ff"

type firestoreBookRepository struct {
	client *firestore.Client
}

func NewFirestoreBookRepository(client *firestore.Client) repository.BookRepository {
	return &firestoreBookRepository{
		client: client,
	}
}

func (r *firestoreBookRepository) Create(ctx context.Context, book *entity.Book) error {
	if book.ID == "" {
		doc := r.client.Collection("books").NewDoc()
		book.ID = doc.ID
	}

	now := time.Now()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err := r.client.Collection("books").Doc(book.ID).Set(ctx, book)
	if err != nil {
		return errors.Internal("Failed to create book", err)
	}

	return nil
}

func (r *firestoreBookRepository) GetByID(ctx context.Context, id string) (*entity.Book, error) {
	doc, err := r.client.Collection("books").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Book", err)
		}
		return nil, errors.Internal("Failed to get book", err)
	}

	var book entity.Book
	if err := doc.DataTo(&book); err != nil {
		return nil, errors.Internal("Failed to parse book data", err)
	}
	book.ID = doc.Ref.ID

	return &book, nil
}

func (r *firestoreBookRepository) List(ctx context.Context) ([]*entity.Book, error) {
	return r.queryBooks(ctx, r.client.Collection("books").Query)
}

func (r *firestoreBookRepository) ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Book, error) {
	query := r.client.Collection("books").Where("sellerId", "==", sellerID)
	return r.queryBooks(ctx, query)
}

func (r *firestoreBookRepository) ListByISBN(ctx context.Context, isbn string) ([]*entity.Book, error) {
	query := r.client.Collection("books").Where("isbn", "==", isbn)
	return r.queryBooks(ctx, query)
}

func (r *firestoreBookRepository) SearchByFieldPrefix(ctx context.Context, field, prefix string) ([]*entity.Book, error) {
	query := r.client.Collection("books").
		Where(field, ">=", prefix).
		Where(field, "<", prefix+prefixSentinel)
	return r.queryBooks(ctx, query)
}

func (r *firestoreBookRepository) Update(ctx context.Context, book *entity.Book) error {
	book.UpdatedAt = time.Now()

	_, err := r.client.Collection("books").Doc(book.ID).Set(ctx, book)
	if err != nil {
		return errors.Internal("Failed to update book", err)
	}

	return nil
}

func (r *firestoreBookRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("books").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete book", err)
	}

	return nil
}

func (r *firestoreBookRepository) queryBooks(ctx context.Context, query firestore.Query) ([]*entity.Book, error) {
	iter := query.Documents(ctx)
	var books []*entity.Book

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate books", err)
		}

		var book entity.Book
		if err := doc.DataTo(&book); err != nil {
			return nil, errors.Internal("Failed to parse book data", err)
		}
		book.ID = doc.Ref.ID
		books = append(books, &book)
	}

	return books, nil
}
