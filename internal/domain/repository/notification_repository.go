package repository

import (
	"context"

	"campusbooks/internal/domain/entity"
)

type NotificationRepository interface {
	// Create inserts a new notification; a document that already exists under
	// the same ID is left untouched. Callers that derive deterministic IDs get
	// idempotent delivery without ever clobbering read state.
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Notification, error)
	MarkAsRead(ctx context.Context, id string) error
	// WatchByUserID streams the full materialized set of the user's
	// notifications on every store change. The stream lives until ctx is
	// canceled or the listener fails; either way the channel is closed.
	WatchByUserID(ctx context.Context, userID string) (<-chan []*entity.Notification, error)
}
