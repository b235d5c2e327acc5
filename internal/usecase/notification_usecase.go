package usecase

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/pkg/errors"
)

// FeedStatus tracks a realtime session's lifecycle. There is no automatic
// reconnect: when a listener dies the session drops back to unsubscribed and
// stays there until an explicit Subscribe or Refresh.
type FeedStatus string

const (
	FeedUnsubscribed FeedStatus = "unsubscribed"
	FeedLoading      FeedStatus = "loading"
	FeedLive         FeedStatus = "live"
)

type feedSession struct {
	cancel        context.CancelFunc
	status        FeedStatus
	notifications []*entity.Notification
}

// NotificationUseCase maintains one live notification mirror per signed-in
// user. Each snapshot replaces the session cache wholesale and is pushed to
// the user's WebSocket connection.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	wsManager        *ws.Manager

	mu       sync.RWMutex
	sessions map[string]*feedSession
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, wsManager *ws.Manager) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		wsManager:        wsManager,
		sessions:         make(map[string]*feedSession),
	}
}

// Subscribe starts (or restarts) the user's feed session. The session lives
// until ctx is canceled, Unsubscribe is called, or the listener fails.
func (uc *NotificationUseCase) Subscribe(ctx context.Context, userID string) error {
	sessionCtx, cancel := context.WithCancel(ctx)

	stream, err := uc.notificationRepo.WatchByUserID(sessionCtx, userID)
	if err != nil {
		cancel()
		return err
	}

	session := &feedSession{
		cancel: cancel,
		status: FeedLoading,
	}

	uc.mu.Lock()
	if previous, ok := uc.sessions[userID]; ok {
		previous.cancel()
	}
	uc.sessions[userID] = session
	uc.mu.Unlock()

	go uc.run(userID, session, stream)

	return nil
}

func (uc *NotificationUseCase) run(userID string, session *feedSession, stream <-chan []*entity.Notification) {
	for notifications := range stream {
		uc.mu.Lock()
		session.status = FeedLive
		session.notifications = notifications
		uc.mu.Unlock()

		uc.push(userID, notifications)
	}

	// Listener ended: canceled or failed. Either way the session is over.
	uc.mu.Lock()
	if current, ok := uc.sessions[userID]; ok && current == session {
		session.status = FeedUnsubscribed
		session.notifications = nil
	}
	uc.mu.Unlock()
}

func (uc *NotificationUseCase) push(userID string, notifications []*entity.Notification) {
	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	event, err := json.Marshal(map[string]interface{}{
		"type":          "notifications_update",
		"notifications": notifications,
		"unread":        unread,
	})
	if err != nil {
		log.Printf("Failed to marshal notification update for user %s: %v", userID, err)
		return
	}

	uc.wsManager.SendToUser(userID, event)
}

// Unsubscribe tears the session down and clears its cache, as on sign-out.
func (uc *NotificationUseCase) Unsubscribe(userID string) {
	uc.mu.Lock()
	session, ok := uc.sessions[userID]
	if ok {
		delete(uc.sessions, userID)
	}
	uc.mu.Unlock()

	if ok {
		session.cancel()
	}
}

// Refresh tears down and re-establishes the subscription, recovering from a
// stalled listener.
func (uc *NotificationUseCase) Refresh(ctx context.Context, userID string) error {
	uc.Unsubscribe(userID)
	return uc.Subscribe(ctx, userID)
}

// List serves from the live mirror when one exists, otherwise reads through
// to the store.
func (uc *NotificationUseCase) List(ctx context.Context, userID string) ([]*entity.Notification, error) {
	uc.mu.RLock()
	session, ok := uc.sessions[userID]
	if ok && session.status == FeedLive {
		notifications := make([]*entity.Notification, len(session.notifications))
		copy(notifications, session.notifications)
		uc.mu.RUnlock()
		return notifications, nil
	}
	uc.mu.RUnlock()

	return uc.notificationRepo.ListByUserID(ctx, userID)
}

// MarkAsRead is one-way: read never transitions back to false, and marking an
// already-read notification is a harmless no-op.
func (uc *NotificationUseCase) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	notification, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}

	if notification.UserID != userID {
		return errors.Forbidden("Notification belongs to another user", nil)
	}

	return uc.notificationRepo.MarkAsRead(ctx, notificationID)
}

func (uc *NotificationUseCase) Status(userID string) FeedStatus {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if session, ok := uc.sessions[userID]; ok {
		return session.status
	}
	return FeedUnsubscribed
}
