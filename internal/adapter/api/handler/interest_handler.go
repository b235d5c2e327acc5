package handler

import (
	"github.com/labstack/echo/v4"

	"campusbooks/internal/usecase"
	"campusbooks/pkg/errors"
	"campusbooks/pkg/response"
)

type InterestHandler struct {
	interestUseCase *usecase.InterestUseCase
}

func NewInterestHandler(interestUseCase *usecase.InterestUseCase) *InterestHandler {
	return &InterestHandler{
		interestUseCase: interestUseCase,
	}
}

func (h *InterestHandler) RegisterInterest(c echo.Context) error {
	userID := c.Get("uid").(string)
	isbn := c.Param("isbn")

	if isbn == "" {
		return response.Error(c, errors.BadRequest("ISBN is required", nil))
	}

	if err := h.interestUseCase.Register(c.Request().Context(), isbn, userID); err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, map[string]string{
		"message": "You will be notified when this book becomes available",
	})
}

func (h *InterestHandler) UnregisterInterest(c echo.Context) error {
	userID := c.Get("uid").(string)
	isbn := c.Param("isbn")

	if isbn == "" {
		return response.Error(c, errors.BadRequest("ISBN is required", nil))
	}

	if err := h.interestUseCase.Unregister(c.Request().Context(), isbn, userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Interest removed successfully",
	})
}

func (h *InterestHandler) ListMyInterests(c echo.Context) error {
	userID := c.Get("uid").(string)

	interests, err := h.interestUseCase.ListFor(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, interests)
}
