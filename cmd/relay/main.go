// cmd/relay/main.go
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"application-relay/internal/common/config"
	"application-relay/internal/common/database"
	"application-relay/internal/common/greenhouse"
	relayhttp "application-relay/internal/common/http"
	"application-relay/internal/common/logger"
	"application-relay/internal/common/observability"
	"application-relay/internal/server"

	dc "application-relay/internal/relay/candidates/delete-candidate"
	sa "application-relay/internal/relay/candidates/submit-application"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"service": cfg.App.Name,
		"version": cfg.App.Version,
	})

	zapLog.Info("Starting application relay...",
		zap.String("environment", cfg.App.Environment),
		zap.String("defaultMode", cfg.Relay.DefaultMode),
		zap.String("envFileLoaded", config.EnvFileLoaded),
	)

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("otel meter disabled", zap.Error(err))
	}
	defer obs.Shutdown()

	// --- Greenhouse client ---
	harvest := greenhouse.NewClient(greenhouse.Options{
		BaseURL: cfg.Greenhouse.BaseURL,
		Credentials: relayhttp.Credentials{
			APIKey:     cfg.Greenhouse.APIKey,
			OnBehalfOf: cfg.Greenhouse.OnBehalfOf,
		},
		Timeout: config.GetDuration(cfg.Greenhouse.Timeout),
	})

	// --- Optional rate limiter ---
	var limiter *server.RateLimiter
	if cfg.RateLimit.Enabled {
		redisClient, err := database.NewRedis(cfg.RateLimit.Redis)
		if err != nil {
			zapLog.Fatal("redis client init failed", zap.Error(err))
		}
		defer redisClient.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx); err != nil {
			zapLog.Warn("redis unreachable at startup, rate limiter will admit requests until it recovers", zap.Error(err))
		}
		cancel()

		limiter = server.NewRateLimiter(redisClient, cfg.RateLimit.Limit, config.GetDuration(cfg.RateLimit.Window), log)
		zapLog.Info("Rate limiter enabled",
			zap.Int("limit", cfg.RateLimit.Limit),
			zap.Int("windowMs", cfg.RateLimit.Window),
		)
	}

	// --- Handlers ---
	submitHandler, err := sa.NewHandler(sa.HandlerOptions{
		AppConfig: cfg,
		Client:    harvest,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create submit-application handler", zap.Error(err))
	}

	deleteHandler, err := dc.NewHandler(dc.HandlerOptions{
		AppConfig: cfg,
		Client:    harvest,
		Logger:    log,
	})
	if err != nil {
		zapLog.Fatal("failed to create delete-candidate handler", zap.Error(err))
	}

	srv := server.New(server.Options{
		Config:        cfg,
		Logger:        log,
		Observability: obs,
		RateLimiter:   limiter,
		Handlers:      []server.Routes{submitHandler, deleteHandler},
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, draining requests...")
	case err := <-errCh:
		if err != nil {
			zapLog.Fatal("relay server failed", zap.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error during shutdown", zap.Error(err))
	}

	zapLog.Info("Application relay stopped gracefully")
}
