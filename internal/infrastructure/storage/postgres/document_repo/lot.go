package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/lot"
	"leafbook/internal/infrastructure/storage/postgres"
)

const (
	lotsTable        = "lots"
	allocationsTable = "lot_purchases"
)

var (
	lotCols        = postgres.ExtractDBColumns[lot.Lot]()
	allocationCols = postgres.ExtractDBColumns[lot.Allocation]()
)

var _ lot.Repository = (*LotRepo)(nil)

// LotRepo implements lot.Repository.
type LotRepo struct {
	*BaseDocumentRepo[*lot.Lot]
}

// NewLotRepo creates a new lot repository.
func NewLotRepo(txm *postgres.TxManager) *LotRepo {
	return &LotRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			lotsTable,
			lotCols,
			"lot_date",
			func() *lot.Lot { return &lot.Lot{} },
		),
	}
}

// GetByCode retrieves a lot by lot_code.
func (r *LotRepo) GetByCode(ctx context.Context, code string) (*lot.Lot, error) {
	l := &lot.Lot{}

	q := r.Builder().
		Select(lotCols...).
		From(lotsTable).
		Where(squirrel.Eq{"lot_code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), l, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(lotsTable, code)
		}
		return nil, fmt.Errorf("get by code: %w", err)
	}

	return l, nil
}

// ExistsByCode checks whether a lot_code is taken.
func (r *LotRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	q := r.Builder().
		Select("1").
		From(lotsTable).
		Where(squirrel.Eq{"lot_code": code}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var exists int
	err = r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if pgxscan.NotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("exists by code: %w", err)
	}

	return true, nil
}

// List retrieves lots with filtering; search matches the lot code.
func (r *LotRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*lot.Lot], error) {
	return r.BaseDocumentRepo.List(ctx, filter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.Search != "" {
			q = q.Where(squirrel.ILike{"lot_code": "%" + filter.Search + "%"})
		}
		return q
	})
}

// CreateAllocation inserts an allocation row.
func (r *LotRepo) CreateAllocation(ctx context.Context, a *lot.Allocation) error {
	q := r.Builder().
		Insert(allocationsTable).
		SetMap(postgres.StructToMap(a))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return apperror.NewDuplicate(allocationsTable, "lot_id, purchase_id", "").WithCause(err)
			case "23503":
				return apperror.NewConflict("lot or purchase does not exist").WithCause(err)
			}
		}
		return fmt.Errorf("insert allocation: %w", err)
	}

	return nil
}

// UpdateAllocation rewrites the weight of an allocation row.
func (r *LotRepo) UpdateAllocation(ctx context.Context, a *lot.Allocation) error {
	q := r.Builder().
		Update(allocationsTable).
		Set("used_weight", a.UsedWeight).
		Where(squirrel.Eq{"id": a.ID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(allocationsTable, a.ID.String())
	}

	return nil
}

// DeleteAllocation removes an allocation row.
func (r *LotRepo) DeleteAllocation(ctx context.Context, allocationID id.ID) error {
	q := r.Builder().
		Delete(allocationsTable).
		Where(squirrel.Eq{"id": allocationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(allocationsTable, allocationID.String())
	}

	return nil
}

// GetAllocation retrieves an allocation row by ID.
func (r *LotRepo) GetAllocation(ctx context.Context, allocationID id.ID) (*lot.Allocation, error) {
	a := &lot.Allocation{}

	q := r.Builder().
		Select(allocationCols...).
		From(allocationsTable).
		Where(squirrel.Eq{"id": allocationID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(allocationsTable, allocationID.String())
		}
		return nil, fmt.Errorf("get allocation: %w", err)
	}

	return a, nil
}

// GetAllocationByPair finds the allocation of a purchase within a lot.
func (r *LotRepo) GetAllocationByPair(ctx context.Context, lotID, purchaseID id.ID) (*lot.Allocation, error) {
	a := &lot.Allocation{}

	q := r.Builder().
		Select(allocationCols...).
		From(allocationsTable).
		Where(squirrel.Eq{"lot_id": lotID, "purchase_id": purchaseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), a, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(allocationsTable, lotID.String())
		}
		return nil, fmt.Errorf("get allocation by pair: %w", err)
	}

	return a, nil
}

// ListAllocationsByLot returns all allocations of a lot.
func (r *LotRepo) ListAllocationsByLot(ctx context.Context, lotID id.ID) ([]*lot.Allocation, error) {
	return r.listAllocations(ctx, squirrel.Eq{"lot_id": lotID})
}

// ListAllocationsByPurchase returns all allocations of a purchase.
func (r *LotRepo) ListAllocationsByPurchase(ctx context.Context, purchaseID id.ID) ([]*lot.Allocation, error) {
	return r.listAllocations(ctx, squirrel.Eq{"purchase_id": purchaseID})
}

func (r *LotRepo) listAllocations(ctx context.Context, cond squirrel.Eq) ([]*lot.Allocation, error) {
	q := r.Builder().
		Select(allocationCols...).
		From(allocationsTable).
		Where(cond).
		OrderBy("created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*lot.Allocation
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}

	return items, nil
}

// SumUsedWeightByPurchase sums used_weight for a purchase, optionally
// excluding one allocation row.
func (r *LotRepo) SumUsedWeightByPurchase(ctx context.Context, purchaseID id.ID, exclude *id.ID) (decimal.Decimal, error) {
	q := r.Builder().
		Select("COALESCE(SUM(used_weight), 0)").
		From(allocationsTable).
		Where(squirrel.Eq{"purchase_id": purchaseID})

	if exclude != nil {
		q = q.Where(squirrel.NotEq{"id": *exclude})
	}

	return r.sumWeight(ctx, q)
}

// SumUsedWeightByLot sums used_weight for a lot.
func (r *LotRepo) SumUsedWeightByLot(ctx context.Context, lotID id.ID) (decimal.Decimal, error) {
	q := r.Builder().
		Select("COALESCE(SUM(used_weight), 0)").
		From(allocationsTable).
		Where(squirrel.Eq{"lot_id": lotID})

	return r.sumWeight(ctx, q)
}

func (r *LotRepo) sumWeight(ctx context.Context, q squirrel.SelectBuilder) (decimal.Decimal, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}

	var total decimal.Decimal
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum used weight: %w", err)
	}

	return total, nil
}

// SetTotalInputWeight writes the recomputed lot total.
func (r *LotRepo) SetTotalInputWeight(ctx context.Context, lotID id.ID, weight decimal.Decimal) error {
	q := r.Builder().
		Update(lotsTable).
		Set("total_input_weight", weight).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": lotID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set total input weight: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(lotsTable, lotID.String())
	}

	return nil
}
