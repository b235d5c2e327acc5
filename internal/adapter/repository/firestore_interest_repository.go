package repository

import (
	"context"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

type firestoreInterestRepository struct {
	client *firestore.Client
}

func NewFirestoreInterestRepository(client *firestore.Client) repository.InterestRepository {
	return &firestoreInterestRepository{client: client}
}

func (r *firestoreInterestRepository) Create(ctx context.Context, interest *entity.Interest) error {
	if interest.ID == "" {
		doc := r.client.Collection("book_interests").NewDoc()
		interest.ID = doc.ID
	}

	_, err := r.client.Collection("book_interests").Doc(interest.ID).Set(ctx, interest)
	if err != nil {
		return errors.Internal("Failed to create interest", err)
	}

	return nil
}

func (r *firestoreInterestRepository) FindByISBNAndUser(ctx context.Context, isbn, userID string) ([]*entity.Interest, error) {
	query := r.client.Collection("book_interests").
		Where("isbn", "==", isbn).
		Where("userId", "==", userID)
	return r.queryInterests(ctx, query)
}

func (r *firestoreInterestRepository) ListByISBN(ctx context.Context, isbn string) ([]*entity.Interest, error) {
	query := r.client.Collection("book_interests").Where("isbn", "==", isbn)
	return r.queryInterests(ctx, query)
}

func (r *firestoreInterestRepository) ListByUserID(ctx context.Context, userID string) ([]*entity.Interest, error) {
	query := r.client.Collection("book_interests").Where("userId", "==", userID)
	return r.queryInterests(ctx, query)
}

func (r *firestoreInterestRepository) DeleteByISBNAndUser(ctx context.Context, isbn, userID string) (int, error) {
	query := r.client.Collection("book_interests").
		Where("isbn", "==", isbn).
		Where("userId", "==", userID)

	docs, err := query.Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to query interests for deletion", err)
	}

	deleted := 0
	for _, doc := range docs {
		if _, err := doc.Ref.Delete(ctx); err != nil {
			return deleted, errors.Internal("Failed to delete interest", err)
		}
		deleted++
	}

	if deleted > 1 {
		log.Printf("Swept %d duplicate interest records for isbn=%s user=%s", deleted, isbn, userID)
	}

	return deleted, nil
}

func (r *firestoreInterestRepository) queryInterests(ctx context.Context, query firestore.Query) ([]*entity.Interest, error) {
	iter := query.Documents(ctx)
	var interests []*entity.Interest

	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Internal("Failed to iterate interests", err)
		}

		var interest entity.Interest
		if err := doc.DataTo(&interest); err != nil {
			return nil, errors.Internal("Failed to parse interest data", err)
		}
		interest.ID = doc.Ref.ID
		interests = append(interests, &interest)
	}

	return interests, nil
}
