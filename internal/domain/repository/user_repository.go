package repository

import (
	"context"

	"campusbooks/internal/domain/entity"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id string) error
	// PurgeUserData bulk-deletes every document the user owns across the
	// books, interests and notifications collections.
	PurgeUserData(ctx context.Context, userID string) error
}
