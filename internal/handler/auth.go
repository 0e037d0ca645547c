package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"quickmoney-backend/internal/dto"
	"quickmoney-backend/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.Email == "" || req.Password == "" || req.Username == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email, password and username are required")
	}

	user, err := h.authService.Signup(ctx, &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return echo.NewHTTPError(http.StatusConflict, service.ErrEmailTaken.Error())
		}
		return err
	}

	return c.JSON(http.StatusCreated, map[string]string{
		"id":            user.ID,
		"referral_code": user.ReferralCode,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	jwtToken, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return echo.NewHTTPError(http.StatusUnauthorized, service.ErrInvalidCredentials.Error())
		case errors.Is(err, service.ErrUserBanned):
			return echo.NewHTTPError(http.StatusForbidden, service.ErrUserBanned.Error())
		}
		return err
	}

	return c.JSON(http.StatusOK, &dto.TokenResponse{Token: jwtToken})
}
