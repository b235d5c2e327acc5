package repository

import (
	"context"

	"campusbooks/internal/domain/entity"
)

type ConversationRepository interface {
	// Create fails with CONFLICT if a conversation with the same ID already
	// exists. Combined with deterministic pair-derived IDs this makes
	// conversation creation race-free.
	Create(ctx context.Context, conversation *entity.Conversation) error
	GetByID(ctx context.Context, id string) (*entity.Conversation, error)
	ListByUserID(ctx context.Context, userID string) ([]*entity.Conversation, error)
	UpdateLastMessage(ctx context.Context, conversationID string, last entity.LastMessage) error

	CreateMessage(ctx context.Context, message *entity.Message) error
	// ListMessages returns the conversation's messages ordered by createdAt
	// ascending.
	ListMessages(ctx context.Context, conversationID string) ([]*entity.Message, error)
	ListUnreadMessages(ctx context.Context, conversationID, excludeSenderID string) ([]*entity.Message, error)
	MarkMessageRead(ctx context.Context, conversationID, messageID string) error

	// WatchByUserID and WatchMessages stream materialized snapshots until ctx
	// is canceled or the listener fails; the channel is closed on teardown.
	WatchByUserID(ctx context.Context, userID string) (<-chan []*entity.Conversation, error)
	WatchMessages(ctx context.Context, conversationID string) (<-chan []*entity.Message, error)
}
