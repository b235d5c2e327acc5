package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupMessageRouter(e *echo.Echo, messageHandler *handler.MessageHandler, authMiddleware *middleware.AuthMiddleware) {
	conversations := e.Group("/v1/conversations")
	conversations.Use(authMiddleware.Authenticate)

	conversations.POST("", messageHandler.CreateConversation)
	conversations.GET("", messageHandler.ListConversations)
	conversations.POST("/refresh", messageHandler.RefreshConversations)
	conversations.POST("/:id/messages", messageHandler.SendMessage)
	conversations.GET("/:id/messages", messageHandler.ListMessages)
	conversations.POST("/:id/read", messageHandler.MarkMessagesAsRead)
}
