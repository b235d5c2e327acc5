package repository

import (
	"context"

	"campusbooks/internal/domain/entity"
)

type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	GetByID(ctx context.Context, id string) (*entity.Book, error)
	List(ctx context.Context) ([]*entity.Book, error)
	ListBySellerID(ctx context.Context, sellerID string) ([]*entity.Book, error)
	ListByISBN(ctx context.Context, isbn string) ([]*entity.Book, error)
	// SearchByFieldPrefix matches documents whose field starts with prefix,
	// using a bounded range query on a single field.
	SearchByFieldPrefix(ctx context.Context, field, prefix string) ([]*entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id string) error
}
