package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"quickmoney-backend/internal/client"
	"quickmoney-backend/internal/config"
	"quickmoney-backend/internal/logging"
	"quickmoney-backend/internal/registry"
	"quickmoney-backend/internal/repository"
	"quickmoney-backend/internal/server"
	"quickmoney-backend/internal/service"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLogger(cfg.Log, cfg.Environment.Name == "production")
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db := client.InitMysqlClient(cfg.DatabaseURL)

	userRepo := repository.NewUserRepository(db)
	cardRepo := repository.NewCardRepository(db)
	purchaseRepo := repository.NewPurchaseRepository(db)
	withdrawalRepo := repository.NewWithdrawalRepository(db)
	earningRepo := repository.NewEarningRepository(db)

	ctx := context.Background()
	if err := cardRepo.Seed(ctx); err != nil {
		logger.Fatal("seed card catalog", zap.Error(err))
	}

	// The amount registry is frozen at startup; catalog edits take effect on
	// the next restart.
	cards, err := cardRepo.ListActive(ctx)
	if err != nil {
		logger.Fatal("load card catalog", zap.Error(err))
	}
	reg := registry.New(cards)

	visionClient := client.NewVisionClient(&cfg.Classifier, reg.Titles())

	authService := service.NewAuthService(userRepo, &cfg.JWT, logger)
	userService := service.NewUserService(userRepo, purchaseRepo, earningRepo)
	cardService := service.NewCardService(cardRepo)
	purchaseService := service.NewPurchaseService(db, purchaseRepo, cardRepo, userRepo)
	verificationService := service.NewVerificationService(db, visionClient, reg, purchaseRepo, userRepo, earningRepo, logger)
	withdrawalService := service.NewWithdrawalService(db, withdrawalRepo, userRepo)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	srv := server.NewServer(cfg, logger,
		authService,
		userService,
		cardService,
		purchaseService,
		verificationService,
		withdrawalService,
	)

	log.Println("Starting HTTP server on", serverAddr)
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Println("Signal received, starting graceful shutdown...")

	_, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(); err != nil {
		logger.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
