// Command seed creates the initial admin account and a little demo data.
package main

import (
	"context"
	"os"

	"leafbook/internal/core/apperror"
	"leafbook/internal/domain/catalogs/farmer"
	"leafbook/internal/infrastructure/storage/postgres"
	"leafbook/internal/infrastructure/storage/postgres/auth_repo"
	"leafbook/internal/infrastructure/storage/postgres/catalog_repo"
	"leafbook/pkg/logger"
	"leafbook/pkg/numerator"

	authdomain "leafbook/internal/domain/auth"
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

	txManager := postgres.NewTxManager(pool)

	seedAdmin(ctx, txManager)
	seedFarmers(ctx, txManager)

	logger.Info(ctx, "seed complete")
}

func seedAdmin(ctx context.Context, txManager *postgres.TxManager) {
	email := envOr("ADMIN_EMAIL", "admin@leafbook.local")
	password := envOr("ADMIN_PASSWORD", "changeme123")

	u, err := authdomain.NewUser(email, "Administrator", password)
	if err != nil {
		logger.Fatal(ctx, "build admin user", "error", err)
	}

	if err := auth_repo.NewUserRepo(txManager).Create(ctx, u); err != nil {
		if apperror.IsDuplicate(err) {
			logger.Info(ctx, "admin user already exists", "email", email)
			return
		}
		logger.Fatal(ctx, "create admin user", "error", err)
	}

	logger.Info(ctx, "admin user created", "email", email)
}

func seedFarmers(ctx context.Context, txManager *postgres.TxManager) {
	svc := farmer.NewService(
		catalog_repo.NewFarmerRepo(txManager),
		numerator.New(txManager))

	samples := []*farmer.Farmer{
		farmer.NewFarmer("", "Ramesh Patel", "Anand"),
		farmer.NewFarmer("", "Suresh Desai", "Kheda"),
	}

	for _, f := range samples {
		if err := svc.Create(ctx, f); err != nil {
			if apperror.IsDuplicate(err) {
				continue
			}
			logger.Fatal(ctx, "seed farmer", "name", f.Name, "error", err)
		}
		logger.Info(ctx, "farmer seeded", "farmer_code", f.FarmerCode, "name", f.Name)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
