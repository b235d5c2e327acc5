package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/internal/usecase"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/response"
)

type MessageHandler struct {
	messageUseCase *usecase.MessageUseCase
	wsManager      *ws.Manager
}

func NewMessageHandler(messageUseCase *usecase.MessageUseCase, wsManager *ws.Manager) *MessageHandler {
	return &MessageHandler{
		messageUseCase: messageUseCase,
		wsManager:      wsManager,
	}
}

type createConversationRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
}

func (h *MessageHandler) CreateConversation(c echo.Context) error {
	userID := c.Get("uid").(string)

	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	conversation, err := h.messageUseCase.CreateOrGetConversation(c.Request().Context(), userID, req.ParticipantID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *MessageHandler) ListConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	conversations, err := h.messageUseCase.ListConversations(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"conversations": conversations,
		"feed_status":   h.messageUseCase.ConversationStatus(userID),
	})
}

// RefreshConversations re-establishes the caller's conversation-list session.
// Requires a live WebSocket connection so the new session has somewhere to push.
func (h *MessageHandler) RefreshConversations(c echo.Context) error {
	userID := c.Get("uid").(string)

	if !h.wsManager.IsConnected(userID) {
		return response.Error(c, errors.BadRequest("A live connection is required to refresh conversations", nil))
	}

	if err := h.messageUseCase.RefreshConversations(context.Background(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"feed_status": h.messageUseCase.ConversationStatus(userID),
	})
}

type sendMessageRequest struct {
	Text string `json:"text" validate:"required,max=2000"`
}

func (h *MessageHandler) SendMessage(c echo.Context) error {
	userID := c.Get("uid").(string)
	conversationID := c.Param("id")

	if conversationID == "" {
		return response.Error(c, errors.BadRequest("Conversation ID is required", nil))
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.messageUseCase.SendMessage(c.Request().Context(), userID, conversationID, req.Text)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *MessageHandler) ListMessages(c echo.Context) error {
	userID := c.Get("uid").(string)
	conversationID := c.Param("id")

	messages, err := h.messageUseCase.ListMessages(c.Request().Context(), userID, conversationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *MessageHandler) MarkMessagesAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	conversationID := c.Param("id")

	if err := h.messageUseCase.MarkMessagesAsRead(c.Request().Context(), userID, conversationID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Messages marked as read",
	})
}
