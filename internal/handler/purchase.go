package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/middleware"
	"quickmoney-backend/internal/service"
	"quickmoney-backend/internal/verification"
)

type PurchaseHandler struct {
	purchaseService     service.PurchaseService
	verificationService service.VerificationService
}

func NewPurchaseHandler(purchaseService service.PurchaseService, verificationService service.VerificationService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService:     purchaseService,
		verificationService: verificationService,
	}
}

func (h *PurchaseHandler) Submit(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SubmitPurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.CardID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "card_id is required")
	}

	result, err := h.purchaseService.Submit(ctx, middleware.UserID(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCardNotFound):
			return echo.NewHTTPError(http.StatusNotFound, service.ErrCardNotFound.Error())
		case errors.Is(err, service.ErrCardInactive):
			return echo.NewHTTPError(http.StatusBadRequest, service.ErrCardInactive.Error())
		case errors.Is(err, service.ErrAlreadyPurchased):
			return echo.NewHTTPError(http.StatusConflict, service.ErrAlreadyPurchased.Error())
		case errors.Is(err, service.ErrUserBanned):
			return echo.NewHTTPError(http.StatusForbidden, service.ErrUserBanned.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, result)
}

func (h *PurchaseHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	purchases, err := h.purchaseService.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, purchases)
}

// Verify drives the automatic screenshot verification for a purchase. The
// response shape is fixed: a decision always comes back as success=true with
// a terminal status, an inconclusive classification or an internal failure
// comes back as success=false, leaving the purchase pending.
func (h *PurchaseHandler) Verify(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.VerifyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ScreenshotURL == "" || req.PurchaseID == "" || req.CardTitle == "" || req.ExpectedAmount == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"success": false,
			"error":   "Missing required fields",
		})
	}

	result, err := h.verificationService.Verify(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPurchaseNotFound):
			return c.JSON(http.StatusNotFound, map[string]interface{}{
				"success": false,
				"error":   service.ErrPurchaseNotFound.Error(),
			})
		case errors.Is(err, service.ErrVerificationInconclusive):
			return c.JSON(http.StatusBadGateway, map[string]interface{}{
				"success":  false,
				"verified": false,
				"status":   "pending",
				"error":    verification.MessageManualReview,
			})
		}
		return c.JSON(http.StatusInternalServerError, map[string]interface{}{
			"success":  false,
			"verified": false,
			"error":    "Failed to verify payment screenshot",
		})
	}

	return c.JSON(http.StatusOK, result)
}
