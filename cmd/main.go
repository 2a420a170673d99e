package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "github.com/translationreview/backend/docs"
	"github.com/translationreview/backend/internal/config"
	"github.com/translationreview/backend/internal/database"
	"github.com/translationreview/backend/internal/handlers"
	"github.com/translationreview/backend/internal/logger"
	"github.com/translationreview/backend/internal/middleware"
	"github.com/translationreview/backend/internal/repositories"
	"github.com/translationreview/backend/internal/services"
	"go.uber.org/zap"
)

// @title Translation Review API
// @version 1.0
// @description API for saving and retrieving translation review progress

// @host localhost:8080
// @BasePath /
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Translation Review API",
		zap.String("env", cfg.App.Env),
		zap.String("api_version", cfg.App.APIVersion),
	)

	// Connect to database
	dsn, err := cfg.DSN()
	if err != nil {
		logger.Logger.Fatal("Invalid database URL", zap.Error(err))
	}
	db, err := database.Open(context.Background(), dsn, database.PoolConfig{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := database.Migrate(db, cfg.Database.MigrationsPath); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	verifier, err := services.NewCredentialVerifier(cfg.Auth.PasswordScheme)
	if err != nil {
		logger.Logger.Fatal("Failed to create credential verifier", zap.Error(err))
	}

	// Initialize repositories
	progressRepo := repositories.NewReviewProgressRepository(db, logger.Logger)
	accountRepo := repositories.NewUserAccountRepository(db, logger.Logger)

	// Initialize services
	progressService := services.NewProgressService(progressRepo, logger.Logger)
	accessService := services.NewAccessService(accountRepo, verifier, logger.Logger)

	// Initialize handlers
	reviewHandler := handlers.NewReviewHandler(progressService, logger.Logger)
	authHandler := handlers.NewAuthHandler(accessService, logger.Logger)
	systemHandler := handlers.NewSystemHandler(db, cfg.App.APIVersion, logger.Logger)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.LoggerMiddleware(logger.Logger))
	r.Use(middleware.RecoveryMiddleware(logger.Logger))
	r.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute))
	r.Use(middleware.RequestSizeLimitMiddleware(middleware.DefaultMaxRequestSize))
	if cfg.Server.RequestTimeout > 0 {
		r.Use(chimiddleware.Timeout(cfg.Server.RequestTimeout))
	}

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	reviewHandler.RegisterRoutes(r)
	authHandler.RegisterRoutes(r)
	systemHandler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}
