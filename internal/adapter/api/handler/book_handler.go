package handler

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/usecase"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/response"
	"campusbooks/pkg/utils"
)

type BookHandler struct {
	bookUseCase *usecase.BookUseCase
}

func NewBookHandler(bookUseCase *usecase.BookUseCase) *BookHandler {
	return &BookHandler{
		bookUseCase: bookUseCase,
	}
}

type bookRequest struct {
	Title       string `json:"title" validate:"required"`
	Author      string `json:"author" validate:"required"`
	ISBN        string `json:"isbn" validate:"required,min=10,max=13"`
	Description string `json:"description"`
	Condition   string `json:"condition" validate:"required,oneof=New Good Acceptable"`
	Course      string `json:"course"`
	Price       string `json:"price" validate:"required"`
	Available   bool   `json:"available"`
}

func (h *BookHandler) ListBooks(c echo.Context) error {
	if err := h.bookUseCase.Refresh(c.Request().Context()); err != nil {
		return response.Error(c, err)
	}

	books := h.bookUseCase.Books()
	pagination := utils.GetPaginationParams(c)

	start := pagination.Offset
	if start > len(books) {
		start = len(books)
	}
	end := start + pagination.PageSize
	if end > len(books) {
		end = len(books)
	}

	return response.Paginated(c, books[start:end], int64(len(books)), pagination.Page, pagination.PageSize)
}

func (h *BookHandler) SearchBooks(c echo.Context) error {
	query := c.QueryParam("q")
	field := c.QueryParam("field")

	if query == "" {
		return response.Error(c, errors.BadRequest("Search query is required", nil))
	}
	if field == "" {
		field = "title"
	}

	books, err := h.bookUseCase.Search(c.Request().Context(), query, field)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, books)
}

func (h *BookHandler) GetBook(c echo.Context) error {
	bookID := c.Param("id")

	book, err := h.bookUseCase.GetByID(c.Request().Context(), bookID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, book)
}

func (h *BookHandler) ListMyBooks(c echo.Context) error {
	userID := c.Get("uid").(string)

	books, err := h.bookUseCase.ListBySeller(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, books)
}

func (h *BookHandler) CreateBook(c echo.Context) error {
	userID := c.Get("uid").(string)

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	book, err := h.bookUseCase.Create(c.Request().Context(), userID, usecase.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		Condition:   req.Condition,
		Course:      req.Course,
		Price:       req.Price,
		Available:   req.Available,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, book)
}

func (h *BookHandler) UpdateBook(c echo.Context) error {
	userID := c.Get("uid").(string)
	bookID := c.Param("id")

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	book, err := h.bookUseCase.Update(c.Request().Context(), userID, bookID, usecase.UpdateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		ISBN:        req.ISBN,
		Description: req.Description,
		Condition:   req.Condition,
		Course:      req.Course,
		Price:       req.Price,
		Available:   req.Available,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, book)
}

func (h *BookHandler) DeleteBook(c echo.Context) error {
	userID := c.Get("uid").(string)
	bookID := c.Param("id")

	if err := h.bookUseCase.Remove(c.Request().Context(), userID, bookID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Book deleted successfully",
	})
}
