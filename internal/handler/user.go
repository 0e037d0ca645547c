package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/middleware"
	"quickmoney-backend/internal/service"
)

type UserHandler struct {
	userService       service.UserService
	cardService       service.CardService
	withdrawalService service.WithdrawalService
}

func NewUserHandler(
	userService service.UserService,
	cardService service.CardService,
	withdrawalService service.WithdrawalService,
) *UserHandler {
	return &UserHandler{
		userService:       userService,
		cardService:       cardService,
		withdrawalService: withdrawalService,
	}
}

func (h *UserHandler) Me(c echo.Context) error {
	ctx := c.Request().Context()

	profile, err := h.userService.Profile(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, service.ErrUserNotFound.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Analytics(c echo.Context) error {
	ctx := c.Request().Context()

	analytics, err := h.userService.Analytics(ctx, middleware.UserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, service.ErrUserNotFound.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, analytics)
}

func (h *UserHandler) ListCards(c echo.Context) error {
	ctx := c.Request().Context()

	cards, err := h.cardService.ListActive(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cards)
}

func (h *UserHandler) RequestWithdrawal(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.WithdrawalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	withdrawal, err := h.withdrawalService.Request(ctx, middleware.UserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrBelowMinimumWithdrawal),
			errors.Is(err, service.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInsufficientBalance):
			return echo.NewHTTPError(http.StatusUnprocessableEntity, service.ErrInsufficientBalance.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, withdrawal)
}

func (h *UserHandler) ListWithdrawals(c echo.Context) error {
	ctx := c.Request().Context()

	withdrawals, err := h.withdrawalService.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, withdrawals)
}
