package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/service"
)

type AdminHandler struct {
	purchaseService     service.PurchaseService
	verificationService service.VerificationService
	userService         service.UserService
	cardService         service.CardService
	withdrawalService   service.WithdrawalService
}

func NewAdminHandler(
	purchaseService service.PurchaseService,
	verificationService service.VerificationService,
	userService service.UserService,
	cardService service.CardService,
	withdrawalService service.WithdrawalService,
) *AdminHandler {
	return &AdminHandler{
		purchaseService:     purchaseService,
		verificationService: verificationService,
		userService:         userService,
		cardService:         cardService,
		withdrawalService:   withdrawalService,
	}
}

func (h *AdminHandler) ListPurchases(c echo.Context) error {
	ctx := c.Request().Context()

	purchases, err := h.purchaseService.ListAll(ctx)
	if err != nil {
		return err
	}

	stats, err := h.purchaseService.Stats(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"purchases": purchases,
		"stats":     stats,
	})
}

// OverridePurchaseStatus is the manual review path: the admin decision is
// authoritative and replaces whatever the automatic verification concluded.
func (h *AdminHandler) OverridePurchaseStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	err := h.verificationService.Override(ctx, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound):
			return echo.NewHTTPError(http.StatusNotFound, service.ErrPurchaseNotFound.Error())
		case errors.Is(err, service.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}

func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userService.ListAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, users)
}

func (h *AdminHandler) SetUserBanned(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Banned bool `json:"banned"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.userService.SetBanned(ctx, c.Param("id"), req.Banned); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, service.ErrUserNotFound.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"banned": req.Banned})
}

func (h *AdminHandler) ListCards(c echo.Context) error {
	ctx := c.Request().Context()

	cards, err := h.cardService.ListAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, cards)
}

func (h *AdminHandler) CreateCard(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Title == "" || req.Price <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "title and a positive price are required")
	}

	card, err := h.cardService.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, card)
}

func (h *AdminHandler) UpdateCard(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	card, err := h.cardService.Update(ctx, c.Param("id"), &req)
	if err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, service.ErrCardNotFound.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, card)
}

func (h *AdminHandler) DeactivateCard(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.cardService.Deactivate(ctx, c.Param("id")); err != nil {
		if errors.Is(err, service.ErrCardNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, service.ErrCardNotFound.Error())
		}
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *AdminHandler) ListWithdrawals(c echo.Context) error {
	ctx := c.Request().Context()

	withdrawals, err := h.withdrawalService.ListAll(ctx)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, withdrawals)
}

func (h *AdminHandler) ProcessWithdrawal(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	err := h.withdrawalService.Process(ctx, c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWithdrawalNotFound):
			return echo.NewHTTPError(http.StatusNotFound, service.ErrWithdrawalNotFound.Error())
		case errors.Is(err, service.ErrInvalidStatus):
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrAlreadyProcessed):
			return echo.NewHTTPError(http.StatusConflict, service.ErrAlreadyProcessed.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"status": req.Status})
}
