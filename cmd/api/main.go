package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/saturnino-fabrica-de-software/facefx/internal/api"
	"github.com/saturnino-fabrica-de-software/facefx/internal/api/middleware"
	"github.com/saturnino-fabrica-de-software/facefx/internal/config"
	"github.com/saturnino-fabrica-de-software/facefx/internal/effects"
	"github.com/saturnino-fabrica-de-software/facefx/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Environment)
	slog.SetDefault(logger)

	logger.Info("starting facefx",
		slog.String("environment", cfg.Environment),
		slog.Int("port", cfg.Port),
		slog.String("provider", cfg.ProviderType),
		slog.String("expression_response_mode", cfg.ExpressionResponseMode),
	)

	effectProvider, err := effects.NewEffectProvider(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create effect provider: %w", err)
	}

	portraitService := service.NewPortraitService(effectProvider, logger).
		WithJPEGQuality(cfg.JPEGQuality)

	rateLimit := middleware.DefaultRateLimiterConfig()
	rateLimit.Max = cfg.RateLimitMax
	rateLimit.Window = cfg.RateLimitWindow

	// Setup router
	router := api.NewRouter(logger, &api.Dependencies{
		Service:        portraitService,
		ProviderName:   cfg.ProviderType,
		MaxUploadBytes: cfg.MaxUploadBytes,
		RateLimit:      rateLimit,
	})
	router.Setup()

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		logger.Info("server listening", slog.String("addr", addr))
		if err := router.Listen(addr); err != nil {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}

	// in-flight compositions may wait on the upstream timeout
	done := make(chan error, 1)
	go func() { done <- router.Shutdown() }()

	select {
	case err := <-done:
		if err != nil {
			logger.Error("shutdown error", slog.Any("error", err))
		}
	case <-time.After(cfg.AILabTimeout + 5*time.Second):
		logger.Warn("shutdown timed out")
	}

	logger.Info("server stopped")
	return nil
}
