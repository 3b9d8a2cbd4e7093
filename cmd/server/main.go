// Command server runs the leafbook HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"leafbook/internal/domain/auth"
	"leafbook/internal/domain/ewaybill"
	"leafbook/internal/infrastructure/ewayclient"
	v1 "leafbook/internal/infrastructure/http/v1"
	"leafbook/internal/infrastructure/storage/postgres"
	"leafbook/internal/infrastructure/storage/postgres/auth_repo"
	"leafbook/pkg/logger"
)

func main() {
	ctx := context.Background()

	log, err := logger.New(logger.Config{
		Level:       getEnv("LOG_LEVEL", "info"),
		Development: getEnv("LOG_DEV", "") == "true",
	})
	if err != nil {
		logger.Fatal(ctx, "init logger", "error", err)
	}
	ctx = logger.WithLogger(ctx, log)

	dsn := mustEnv(ctx, "DATABASE_URL")
	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		logger.Fatal(ctx, "connect to database", "error", err)
	}
	defer pool.Close()

	if getEnv("MIGRATE_ON_START", "true") == "true" {
		if err := postgres.Migrate(ctx, pool); err != nil {
			logger.Fatal(ctx, "run migrations", "error", err)
		}
	}

	txManager := postgres.NewTxManager(pool)

	issuer := auth.NewTokenIssuer(
		mustEnv(ctx, "JWT_SECRET"),
		getEnvDuration("TOKEN_TTL", 24*time.Hour))
	authSvc := auth.NewService(auth_repo.NewUserRepo(txManager), issuer)

	var ewayClient ewaybill.Client = ewayclient.Disabled{}
	if baseURL := getEnv("EWAY_BASE_URL", ""); baseURL != "" {
		ewayClient = ewayclient.New(ewayclient.Config{
			BaseURL: baseURL,
			APIKey:  getEnv("EWAY_API_KEY", ""),
			Timeout: getEnvDuration("EWAY_TIMEOUT", 30*time.Second),
		})
	}

	router, err := v1.NewRouter(v1.RouterConfig{
		Logger:     log,
		Pool:       pool,
		TxManager:  txManager,
		AuthSvc:    authSvc,
		EwayClient: ewayClient,
	})
	if err != nil {
		logger.Fatal(ctx, "build router", "error", err)
	}

	addr := ":" + getEnv("PORT", "8080")
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info(ctx, "server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal(ctx, "server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info(ctx, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "shutdown failed", "error", err)
	}
	logger.Info(ctx, "server stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func mustEnv(ctx context.Context, key string) string {
	v := os.Getenv(key)
	if v == "" {
		logger.Fatal(ctx, "required environment variable is not set", "key", key)
	}
	return v
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
