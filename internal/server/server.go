package server

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"quickmoney-backend/internal/config"
	"quickmoney-backend/internal/handler"
	"quickmoney-backend/internal/middleware"
	"quickmoney-backend/internal/service"
)

type Server struct {
	echo            *echo.Echo
	jwtCfg          *config.JWT
	authHandler     *handler.AuthHandler
	userHandler     *handler.UserHandler
	purchaseHandler *handler.PurchaseHandler
	adminHandler    *handler.AdminHandler
}

func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	authService service.AuthService,
	userService service.UserService,
	cardService service.CardService,
	purchaseService service.PurchaseService,
	verificationService service.VerificationService,
	withdrawalService service.WithdrawalService,
) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
			)
			return nil
		},
	}))
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	s := &Server{
		echo:            e,
		jwtCfg:          &cfg.JWT,
		authHandler:     handler.NewAuthHandler(authService),
		userHandler:     handler.NewUserHandler(userService, cardService, withdrawalService),
		purchaseHandler: handler.NewPurchaseHandler(purchaseService, verificationService),
		adminHandler:    handler.NewAdminHandler(purchaseService, verificationService, userService, cardService, withdrawalService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.POST("/auth/signup", s.authHandler.Signup)
	api.POST("/auth/login", s.authHandler.Login)
	api.GET("/cards", s.userHandler.ListCards)

	// -------- authenticated --------
	auth := api.Group("", middleware.AuthMiddleware(s.jwtCfg))
	auth.GET("/me", s.userHandler.Me)
	auth.GET("/me/analytics", s.userHandler.Analytics)
	auth.POST("/purchases", s.purchaseHandler.Submit)
	auth.GET("/purchases", s.purchaseHandler.List)
	auth.POST("/purchases/verify", s.purchaseHandler.Verify)
	auth.POST("/withdrawals", s.userHandler.RequestWithdrawal)
	auth.GET("/withdrawals", s.userHandler.ListWithdrawals)

	// -------- admin --------
	admin := api.Group("/admin", middleware.AuthMiddleware(s.jwtCfg), middleware.AdminMiddleware())
	admin.GET("/purchases", s.adminHandler.ListPurchases)
	admin.PUT("/purchases/:id/status", s.adminHandler.OverridePurchaseStatus)
	admin.GET("/users", s.adminHandler.ListUsers)
	admin.PUT("/users/:id/ban", s.adminHandler.SetUserBanned)
	admin.GET("/cards", s.adminHandler.ListCards)
	admin.POST("/cards", s.adminHandler.CreateCard)
	admin.PUT("/cards/:id", s.adminHandler.UpdateCard)
	admin.DELETE("/cards/:id", s.adminHandler.DeactivateCard)
	admin.GET("/withdrawals", s.adminHandler.ListWithdrawals)
	admin.PUT("/withdrawals/:id/status", s.adminHandler.ProcessWithdrawal)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}
