// Command migrate applies the database schema and exits.
package main

import (
	"context"
	"os"

	"leafbook/internal/infrastructure/storage/postgres"
	"leafbook/pkg/logger"
)

func main() {
	ctx := context.Background()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal(ctx, "DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dsn))
	if err != nil {
		logger.Fatal(ctx, "connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		logger.Fatal(ctx, "run migrations", "error", err)
	}

	logger.Info(ctx, "migrations applied")
}
