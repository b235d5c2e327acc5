package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/pkg/errors"
)

type firestoreUserRepository struct {
	client *firestore.Client
}

func NewFirestoreUserRepository(client *firestore.Client) repository.UserRepository {
	return &firestoreUserRepository{
		client: client,
	}
}

func (r *firestoreUserRepository) Create(ctx context.Context, user *entity.User) error {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	// User docs are keyed by the auth uid, not an auto ID.
	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to create user", err)
	}

	return nil
}

func (r *firestoreUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	doc, err := r.client.Collection("users").Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("User", err)
		}
		return nil, errors.Internal("Failed to get user", err)
	}

	var user entity.User
	if err := doc.DataTo(&user); err != nil {
		return nil, errors.Internal("Failed to parse user data", err)
	}
	user.ID = doc.Ref.ID

	return &user, nil
}

func (r *firestoreUserRepository) Update(ctx context.Context, user *entity.User) error {
	user.UpdatedAt = time.Now()

	_, err := r.client.Collection("users").Doc(user.ID).Set(ctx, user)
	if err != nil {
		return errors.Internal("Failed to update user", err)
	}

	return nil
}

func (r *firestoreUserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.Collection("users").Doc(id).Delete(ctx)
	if err != nil {
		return errors.Internal("Failed to delete user", err)
	}

	return nil
}

func (r *firestoreUserRepository) PurgeUserData(ctx context.Context, userID string) error {
	bw := r.client.BulkWriter(ctx)

	queries := []firestore.Query{
		r.client.Collection("books").Where("sellerId", "==", userID),
		r.client.Collection("book_interests").Where("userId", "==", userID),
		r.client.Collection("notifications").Where("userId", "==", userID),
	}

	queued := 0
	for _, query := range queries {
		docs, err := query.Documents(ctx).GetAll()
		if err != nil {
			bw.End()
			return errors.Internal("Failed to query user data for deletion", err)
		}
		for _, doc := range docs {
			if _, err := bw.Delete(doc.Ref); err != nil {
				bw.End()
				return errors.Internal("Failed to queue user data deletion", err)
			}
			queued++
		}
	}

	bw.End()
	log.Printf("Purged %d documents for user %s", queued, userID)

	return nil
}
