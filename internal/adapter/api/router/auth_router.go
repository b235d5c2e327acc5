package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupAuthRouter(e *echo.Echo, authHandler *handler.AuthHandler, authMiddleware *middleware.AuthMiddleware) {
	auth := e.Group("/v1/auth")

	auth.POST("/register", authHandler.Register)

	protected := auth.Group("")
	protected.Use(authMiddleware.Authenticate)
	protected.GET("/me", authHandler.GetProfile)
	protected.PATCH("/me", authHandler.UpdateProfile)
	protected.POST("/change-password", authHandler.ChangePassword)
	protected.POST("/sign-out", authHandler.SignOut)
	protected.DELETE("/account", authHandler.DeleteAccount)
}
