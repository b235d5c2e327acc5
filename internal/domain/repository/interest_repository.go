package repository

import (
	"context"

	"campusbooks/internal/domain/entity"
)

type InterestRepository interface {
	Create(ctx context.Context, interest *entity.Interest) error
	FindByISBNAndUser(ctx context.Context, isbn, userID string) ([]*entity.Interest, error)
	ListByISBN(ctx context.Context, isbn string) ([]*entity.Interest, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Interest, error)
	// DeleteByISBNAndUser removes every matching record and reports how many
	// were deleted. Duplicates from historic races are swept in one call.
	DeleteByISBNAndUser(ctx context.Context, isbn, userID string) (int, error)
}
