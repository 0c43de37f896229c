package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rapex-ph/onboarding-backend/config"
	"github.com/rapex-ph/onboarding-backend/internal/app/controller"
	"github.com/rapex-ph/onboarding-backend/internal/app/repository"
	"github.com/rapex-ph/onboarding-backend/internal/app/service"
	"github.com/rapex-ph/onboarding-backend/internal/db"
	"github.com/rapex-ph/onboarding-backend/internal/middleware"
	"github.com/rapex-ph/onboarding-backend/internal/router"
	"github.com/rapex-ph/onboarding-backend/internal/scheduler"
	"github.com/rapex-ph/onboarding-backend/internal/session"
	"github.com/rapex-ph/onboarding-backend/internal/storage"
	"github.com/rapex-ph/onboarding-backend/pkg/logger"
	"github.com/rapex-ph/onboarding-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting RAPEX Onboarding Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Initialize Redis
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Initialize session store and document storage
	sessions := session.NewRedisStore(
		redis.GetClient(),
		cfg.Registration.SessionTTL,
		cfg.Registration.OTPTTL,
	)
	documents := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize repositories
	merchantRepo := repository.NewMerchantRepository(db.GetDB())
	catalogRepo := repository.NewCatalogRepository(db.GetDB())

	// Initialize services
	registrationService := service.NewRegistrationService(
		merchantRepo,
		catalogRepo,
		sessions,
		documents,
		service.RegistrationConfig{
			JWTSecret:      cfg.JWT.Secret,
			AccessExpiry:   cfg.JWT.AccessTokenExpiry,
			RefreshExpiry:  cfg.JWT.RefreshTokenExpiry,
			OTPResendFloor: cfg.Registration.OTPResendFloor,
			SMTP:           cfg.SMTP,
		},
	)
	catalogService := service.NewCatalogService(catalogRepo)
	merchantService := service.NewMerchantService(merchantRepo)

	// Initialize controllers
	registrationController := controller.NewRegistrationController(registrationService)
	catalogController := controller.NewCatalogController(catalogService)
	merchantController := controller.NewMerchantController(merchantService)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start the staged document cleanup scheduler
	cleanupScheduler := scheduler.NewCleanupScheduler(documents, cfg.Registration.SessionTTL)
	if err := cleanupScheduler.Start(); err != nil {
		logger.Fatal("Failed to start cleanup scheduler", err)
	}
	defer cleanupScheduler.Stop()

	// Setup router
	r := router.NewRouter(
		registrationController,
		catalogController,
		merchantController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
