package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupInterestRouter(e *echo.Echo, interestHandler *handler.InterestHandler, authMiddleware *middleware.AuthMiddleware) {
	interests := e.Group("/v1/interests")
	interests.Use(authMiddleware.Authenticate)

	interests.GET("", interestHandler.ListMyInterests)
	interests.POST("/:isbn", interestHandler.RegisterInterest)
	interests.DELETE("/:isbn", interestHandler.UnregisterInterest)
}
