package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "courseflow/docs"
	"courseflow/internal/api/v1/router"
	"courseflow/internal/config"
	"courseflow/internal/logger"
	"courseflow/internal/service"

	"github.com/joho/godotenv"
)

// @title Courseflow API
// @version 1.0
// @description Course structure authoring, review workflow and learner content delivery
// @host localhost:8080
// @BasePath /v1
// @Schemes http https

func main() {
	logger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Msgf("Error loading config: %v", err)
	}

	// 2. Resolve the JWT secret from Secret Manager when it is not given directly
	if cfg.JWTSecret == "" && cfg.JWTSecretName != "" {
		secrets, err := service.NewSecretManagerService(context.Background(), cfg)
		if err != nil {
			logger.Fatal().Msgf("Failed to create Secret Manager client: %v", err)
		}
		cfg.JWTSecret, err = secrets.GetSecret(context.Background(), cfg.JWTSecretName)
		secrets.Close()
		if err != nil {
			logger.Fatal().Msgf("Failed to load JWT secret %s: %v", cfg.JWTSecretName, err)
		}
	}
	if cfg.JWTSecret == "" {
		logger.Fatal().Msg("No JWT secret configured: set SUPABASE_JWT_SECRET or JWT_SECRET_NAME")
	}

	// 3. Build router
	r, cleanup, err := router.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer cleanup()

	// 4. Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 5. Start server in a goroutine
	go func() {
		logger.Info().Msgf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Msgf("Listen: %s", err)
		}
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Msgf("Server forced to shutdown: %v", err)
		return
	}
	logger.Info().Msg("Server shut down gracefully")
}
