package usecase

import (
	"context"
	"encoding/json"
	"log"
	"sort"
	"strings"
	"sync"

	"go.uber.org/multierr"

	"campusbooks/internal/domain/entity"
	"campusbooks/internal/domain/repository"
	"campusbooks/internal/infrastructure/ratelimit"
	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/pkg/errors"
)

type conversationSession struct {
	cancel        context.CancelFunc
	status        FeedStatus
	conversations []*entity.Conversation
}

// MessageUseCase manages two-party conversations and their message streams.
// A conversation's document ID is derived from the sorted participant pair,
// so existence checks are direct lookups and two users racing to start the
// same conversation converge on one document.
type MessageUseCase struct {
	conversationRepo repository.ConversationRepository
	userRepo         repository.UserRepository
	wsManager        *ws.Manager
	rateLimiter      *ratelimit.RateLimiter

	mu       sync.RWMutex
	sessions map[string]*conversationSession
}

func NewMessageUseCase(
	conversationRepo repository.ConversationRepository,
	userRepo repository.UserRepository,
	wsManager *ws.Manager,
	rateLimiter *ratelimit.RateLimiter,
) *MessageUseCase {
	return &MessageUseCase{
		conversationRepo: conversationRepo,
		userRepo:         userRepo,
		wsManager:        wsManager,
		rateLimiter:      rateLimiter,
		sessions:         make(map[string]*conversationSession),
	}
}

// ConversationKey derives the canonical conversation ID for a user pair,
// independent of ordering.
func ConversationKey(userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

func (uc *MessageUseCase) CreateOrGetConversation(ctx context.Context, userID, participantID string) (*entity.Conversation, error) {
	if userID == participantID {
		return nil, errors.BadRequest("You cannot start a conversation with yourself", nil)
	}

	if _, err := uc.userRepo.GetByID(ctx, participantID); err != nil {
		return nil, errors.NotFound("Participant", err)
	}

	id := ConversationKey(userID, participantID)

	conversation, err := uc.conversationRepo.GetByID(ctx, id)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	allowed, waitTime := uc.rateLimiter.Allow(userID, "create_conversation")
	if !allowed {
		log.Printf("CreateOrGetConversation rate limited: user %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("Too many new conversations. Please wait before starting another")
	}

	participants := []string{userID, participantID}
	sort.Strings(participants)

	conversation = &entity.Conversation{
		ID:           id,
		Participants: participants,
		LastMessage:  entity.LastMessage{},
	}

	if err := uc.conversationRepo.Create(ctx, conversation); err != nil {
		// Lost the create race: the other participant's document wins.
		if errors.Is(err, "CONFLICT") {
			return uc.conversationRepo.GetByID(ctx, id)
		}
		return nil, err
	}

	return conversation, nil
}

// SendMessage appends to the message stream and then refreshes the parent's
// denormalized lastMessage. The two writes are not atomic: if the second
// fails, lastMessage stays stale until the next successful send.
func (uc *MessageUseCase) SendMessage(ctx context.Context, userID, conversationID, text string) (*entity.Message, error) {
	allowed, waitTime := uc.rateLimiter.Allow(userID, "send_message")
	if !allowed {
		log.Printf("SendMessage rate limited: user %s must wait %v", userID, waitTime)
		return nil, errors.TooManyRequests("You are sending messages too quickly. Please slow down")
	}

	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !containsString(conversation.Participants, userID) {
		return nil, errors.Forbidden("User is not a participant in this conversation", nil)
	}

	message := &entity.Message{
		ConversationID: conversationID,
		SenderID:       userID,
		Text:           text,
		Read:           false,
	}

	if err := uc.conversationRepo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	// CreatedAt stays zero so the store stamps it server-side, same as the
	// message document itself.
	last := entity.LastMessage{
		Text:     text,
		SenderID: userID,
	}
	if err := uc.conversationRepo.UpdateLastMessage(ctx, conversationID, last); err != nil {
		log.Printf("Failed to update last message for conversation %s: %v", conversationID, err)
		return nil, err
	}

	uc.pushToOthers(conversation, userID, map[string]interface{}{
		"type":            "new_message",
		"conversation_id": conversationID,
		"message":         message,
	})

	return message, nil
}

func (uc *MessageUseCase) ListMessages(ctx context.Context, userID, conversationID string) ([]*entity.Message, error) {
	if err := uc.requireParticipant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return uc.conversationRepo.ListMessages(ctx, conversationID)
}

// StreamMessages opens a realtime stream of the conversation's messages in
// createdAt order. The stream is torn down when ctx is canceled; callers hold
// no separate unsubscribe handle to forget.
func (uc *MessageUseCase) StreamMessages(ctx context.Context, userID, conversationID string) (<-chan []*entity.Message, error) {
	if err := uc.requireParticipant(ctx, userID, conversationID); err != nil {
		return nil, err
	}
	return uc.conversationRepo.WatchMessages(ctx, conversationID)
}

// MarkMessagesAsRead flips read on every unread message sent by the other
// participant. Failures on individual messages are collected, not fatal.
func (uc *MessageUseCase) MarkMessagesAsRead(ctx context.Context, userID, conversationID string) error {
	if err := uc.requireParticipant(ctx, userID, conversationID); err != nil {
		return err
	}

	unread, err := uc.conversationRepo.ListUnreadMessages(ctx, conversationID, userID)
	if err != nil {
		return err
	}

	var errs error
	for _, message := range unread {
		if err := uc.conversationRepo.MarkMessageRead(ctx, conversationID, message.ID); err != nil {
			log.Printf("Failed to mark message %s as read: %v", message.ID, err)
			errs = multierr.Append(errs, err)
		}
	}

	return errs
}

// SubscribeConversations starts the user's conversation-list session for the
// lifetime of ctx, pushing every snapshot to their WebSocket.
func (uc *MessageUseCase) SubscribeConversations(ctx context.Context, userID string) error {
	sessionCtx, cancel := context.WithCancel(ctx)

	stream, err := uc.conversationRepo.WatchByUserID(sessionCtx, userID)
	if err != nil {
		cancel()
		return err
	}

	session := &conversationSession{
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

func (uc *MessageUseCase) run(userID string, session *conversationSession, stream <-chan []*entity.Conversation) {
	for conversations := range stream {
		uc.mu.Lock()
		session.status = FeedLive
		session.conversations = conversations
		uc.mu.Unlock()

		event, err := json.Marshal(map[string]interface{}{
			"type":          "conversation_list_update",
			"conversations": conversations,
		})
		if err != nil {
			log.Printf("Failed to marshal conversation update for user %s: %v", userID, err)
			continue
		}
		uc.wsManager.SendToUser(userID, event)
	}

	uc.mu.Lock()
	if current, ok := uc.sessions[userID]; ok && current == session {
		session.status = FeedUnsubscribed
		session.conversations = nil
	}
	uc.mu.Unlock()
}

func (uc *MessageUseCase) UnsubscribeConversations(userID string) {
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

// RefreshConversations re-establishes the conversation-list subscription.
func (uc *MessageUseCase) RefreshConversations(ctx context.Context, userID string) error {
	uc.UnsubscribeConversations(userID)
	return uc.SubscribeConversations(ctx, userID)
}

func (uc *MessageUseCase) ListConversations(ctx context.Context, userID string) ([]*entity.Conversation, error) {
	uc.mu.RLock()
	session, ok := uc.sessions[userID]
	if ok && session.status == FeedLive {
		conversations := make([]*entity.Conversation, len(session.conversations))
		copy(conversations, session.conversations)
		uc.mu.RUnlock()
		return conversations, nil
	}
	uc.mu.RUnlock()

	return uc.conversationRepo.ListByUserID(ctx, userID)
}

func (uc *MessageUseCase) ConversationStatus(userID string) FeedStatus {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	if session, ok := uc.sessions[userID]; ok {
		return session.status
	}
	return FeedUnsubscribed
}

func (uc *MessageUseCase) requireParticipant(ctx context.Context, userID, conversationID string) error {
	conversation, err := uc.conversationRepo.GetByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if !containsString(conversation.Participants, userID) {
		return errors.Forbidden("User is not a participant in this conversation", nil)
	}
	return nil
}

func (uc *MessageUseCase) pushToOthers(conversation *entity.Conversation, senderID string, payload map[string]interface{}) {
	event, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal push event for conversation %s: %v", conversation.ID, err)
		return
	}

	for _, participantID := range conversation.Participants {
		if participantID != senderID {
			uc.wsManager.SendToUser(participantID, event)
		}
	}
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
