package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/internal/domain/catalogs/farmer"
	"leafbook/internal/infrastructure/storage/postgres"
)

const farmersTable = "farmers"

var farmerCols = postgres.ExtractDBColumns[farmer.Farmer]()

var _ farmer.Repository = (*FarmerRepo)(nil)

// FarmerRepo implements farmer.Repository.
type FarmerRepo struct {
	*BaseCatalogRepo[*farmer.Farmer]
}

// NewFarmerRepo creates a new farmer repository.
func NewFarmerRepo(txm *postgres.TxManager) *FarmerRepo {
	return &FarmerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txm,
			farmersTable,
			farmerCols,
			[]string{"name", "farmer_code", "village"},
			func() *farmer.Farmer { return &farmer.Farmer{} },
		),
	}
}

// GetByCode retrieves a farmer by farmer_code.
func (r *FarmerRepo) GetByCode(ctx context.Context, code string) (*farmer.Farmer, error) {
	return r.BaseCatalogRepo.GetByCode(ctx, "farmer_code", code)
}

// ExistsByCode checks whether a farmer_code is taken.
func (r *FarmerRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return r.BaseCatalogRepo.ExistsByCode(ctx, "farmer_code", code)
}

// List retrieves farmers; inactive ones only when asked for.
func (r *FarmerRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*farmer.Farmer], error) {
	return r.BaseCatalogRepo.List(ctx, filter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if !filter.IncludeInactive {
			q = q.Where(squirrel.Eq{"is_active": true})
		}
		return q
	})
}

// SetActive flips the soft-delete flag.
func (r *FarmerRepo) SetActive(ctx context.Context, farmerID id.ID, active bool) error {
	q := r.Builder().
		Update(farmersTable).
		Set("is_active", active).
		Set("version", squirrel.Expr("version + 1")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": farmerID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build set active: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("execute set active: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(farmersTable, farmerID.String())
	}

	return nil
}
