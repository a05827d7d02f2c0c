// Service entry point: env, config, infra, router, graceful shutdown.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/myposcore/backend/internal/checks"
	"github.com/myposcore/backend/internal/config"
	"github.com/myposcore/backend/internal/i18n"
	"github.com/myposcore/backend/internal/infra"
	"github.com/myposcore/backend/internal/redis"
	"github.com/myposcore/backend/internal/router"
	"github.com/myposcore/backend/internal/security"
)

func main() {
	envFile := config.LoadDotEnvUp(8)

	logger, _ := zap.NewProduction()
	if os.Getenv("APP_ENV") == "local" {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	if envFile != "" {
		logger.Info("loaded env file", zap.String("path", envFile))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}
	if err := i18n.Load(); err != nil {
		logger.Fatal("i18n load failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps, err := infra.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("infra init failed", zap.Error(err))
	}
	defer deps.Close()

	handler := router.New(router.Dependencies{
		Logger:           logger,
		Debug:            cfg.IsLocal(),
		CORSAllowOrigins: cfg.Server.CORSAllowOrigins,
		TrustedProxies:   cfg.Server.TrustedProxies,
		RateCounter:      redis.NewWindowCounter(deps.Redis, "ratelimit:"),
		RateLimitRPS:     cfg.Security.RateLimitRPS,
		AuthValidator:    security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTAccessTTL),
		Checks:           checks.NewRepo(deps.PG),
		MaxBodyBytes:     cfg.Server.MaxBodyBytes,
	})

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("http server starting", zap.String("addr", httpServer.Addr), zap.String("env", cfg.AppEnv))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown", zap.Error(err))
	}
	logger.Info("http server stopped")
}
