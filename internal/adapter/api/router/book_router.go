package router

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/adapter/api/handler"
	"campusbooks/internal/adapter/api/middleware"
)

func SetupBookRouter(e *echo.Echo, bookHandler *handler.BookHandler, authMiddleware *middleware.AuthMiddleware) {
	books := e.Group("/v1/books")
	books.Use(authMiddleware.Authenticate)

	books.GET("", bookHandler.ListBooks)
	books.GET("/search", bookHandler.SearchBooks)
	books.GET("/mine", bookHandler.ListMyBooks)
	books.GET("/:id", bookHandler.GetBook)
	books.POST("", bookHandler.CreateBook)
	books.PUT("/:id", bookHandler.UpdateBook)
	books.DELETE("/:id", bookHandler.DeleteBook)
}
