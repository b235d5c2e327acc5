package handler

import (
	"context"
	"log"
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/middleware"
	ws "campusbooks/internal/infrastructure/websocket"
	"campusbooks/internal/usecase"
	"campusbooks/pkg/errors"
)

// WebSocketHandler upgrades connections and binds the user's realtime feeds
// to the connection's lifetime: connecting subscribes, disconnecting tears
// the listeners down.
type WebSocketHandler struct {
	wsManager           *ws.Manager
	authMiddleware      *middleware.AuthMiddleware
	notificationUseCase *usecase.NotificationUseCase
	messageUseCase      *usecase.MessageUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	notificationUseCase *usecase.NotificationUseCase,
	messageUseCase *usecase.MessageUseCase,
) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:           wsManager,
		authMiddleware:      authMiddleware,
		notificationUseCase: notificationUseCase,
		messageUseCase:      messageUseCase,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	// Browsers cannot set headers on WebSocket requests, so the token rides
	// in a query parameter.
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication token is required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}

	h.wsManager.Register <- client

	connCtx, cancel := context.WithCancel(context.Background())

	if err := h.notificationUseCase.Subscribe(connCtx, userID); err != nil {
		log.Printf("Failed to subscribe notification feed for %s: %v", userID, err)
	}
	if err := h.messageUseCase.SubscribeConversations(connCtx, userID); err != nil {
		log.Printf("Failed to subscribe conversation feed for %s: %v", userID, err)
	}

	go client.WritePump()
	go func() {
		client.ReadPump(h.wsManager)
		cancel()
		h.notificationUseCase.Unsubscribe(userID)
		h.messageUseCase.UnsubscribeConversations(userID)
	}()

	return nil
}
