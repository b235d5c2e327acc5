package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

type Handlers struct {
	Auth         *handler.AuthHandler
	Book         *handler.BookHandler
	Interest     *handler.InterestHandler
	Notification *handler.NotificationHandler
	Message      *handler.MessageHandler
	WebSocket    *handler.WebSocketHandler
}

func Setup(e *echo.Echo, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	SetupAuthRouter(e, h.Auth, authMiddleware)
	SetupBookRouter(e, h.Book, authMiddleware)
	SetupInterestRouter(e, h.Interest, authMiddleware)
	SetupNotificationRouter(e, h.Notification, authMiddleware)
	SetupMessageRouter(e, h.Message, authMiddleware)
	SetupWebSocketRouter(e, h.WebSocket)
	SetupHealthRouter(e)
}
