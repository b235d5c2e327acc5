package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/internal/usecase"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/response"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
	wsManager           *ws.Manager
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase, wsManager *ws.Manager) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		wsManager:           wsManager,
	}
}

func (h *NotificationHandler) ListNotifications(c echo.Context) error {
	userID := c.Get("uid").(string)

	notifications, err := h.notificationUseCase.List(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	return response.Success(c, map[string]interface{}{
		"notifications": notifications,
		"unread":        unread,
		"feed_status":   h.notificationUseCase.Status(userID),
	})
}

func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	userID := c.Get("uid").(string)
	notificationID := c.Param("id")

	if notificationID == "" {
		return response.Error(c, errors.BadRequest("Notification ID is required", nil))
	}

	if err := h.notificationUseCase.MarkAsRead(c.Request().Context(), userID, notificationID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Notification marked as read",
	})
}

// RefreshFeed tears down and re-establishes the caller's feed session,
// recovering from a stalled listener. The session is only re-created while a
// WebSocket connection is live; disconnect tears it down again.
func (h *NotificationHandler) RefreshFeed(c echo.Context) error {
	userID := c.Get("uid").(string)

	if !h.wsManager.IsConnected(userID) {
		return response.Error(c, errors.BadRequest("A live connection is required to refresh the feed", nil))
	}

	if err := h.notificationUseCase.Refresh(context.Background(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"feed_status": h.notificationUseCase.Status(userID),
	})
}

func (h *NotificationHandler) GetFeedStatus(c echo.Context) error {
	userID := c.Get("uid").(string)

	return response.Success(c, map[string]interface{}{
		"feed_status": h.notificationUseCase.Status(userID),
	})
}
