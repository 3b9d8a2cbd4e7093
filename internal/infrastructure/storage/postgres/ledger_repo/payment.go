// Package ledger_repo provides the PostgreSQL implementation of the
// payment ledger repository.
package ledger_repo

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
	"leafbook/internal/domain/payments"
	"leafbook/internal/infrastructure/storage/postgres"
)

const paymentsTable = "payments"

var paymentCols = postgres.ExtractDBColumns[payments.Payment]()

var _ payments.Repository = (*PaymentRepo)(nil)

// PaymentRepo implements payments.Repository.
type PaymentRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewPaymentRepo creates a new payment ledger repository.
func NewPaymentRepo(txm *postgres.TxManager) *PaymentRepo {
	return &PaymentRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *PaymentRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts a ledger entry.
func (r *PaymentRepo) Create(ctx context.Context, p *payments.Payment) error {
	q := r.builder.
		Insert(paymentsTable).
		SetMap(postgres.StructToMap(p))

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return apperror.NewConflict("purchase does not exist").
				WithDetail("purchase_id", p.PurchaseID.String()).
				WithCause(err)
		}
		return fmt.Errorf("insert payment: %w", err)
	}

	return nil
}

// Update modifies a ledger entry with optimistic locking.
func (r *PaymentRepo) Update(ctx context.Context, p *payments.Payment) error {
	data := postgres.StructToMap(p)
	delete(data, "id")
	delete(data, "created_at")
	delete(data, "version")

	// Services call Touch() before Update, so the entity carries the next
	// version; the row must still hold the previous one.
	q := r.builder.
		Update(paymentsTable).
		SetMap(data).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(paymentsTable, p.ID)
	}

	return nil
}

// Delete removes a ledger entry.
func (r *PaymentRepo) Delete(ctx context.Context, paymentID id.ID) error {
	q := r.builder.
		Delete(paymentsTable).
		Where(squirrel.Eq{"id": paymentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewNotFound(paymentsTable, paymentID.String())
	}

	return nil
}

// GetByID retrieves a ledger entry.
func (r *PaymentRepo) GetByID(ctx context.Context, paymentID id.ID) (*payments.Payment, error) {
	p := &payments.Payment{}

	q := r.builder.
		Select(paymentCols...).
		From(paymentsTable).
		Where(squirrel.Eq{"id": paymentID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(paymentsTable, paymentID.String())
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return p, nil
}

// ListByPurchase returns all entries against a purchase, oldest first.
func (r *PaymentRepo) ListByPurchase(ctx context.Context, purchaseID id.ID) ([]*payments.Payment, error) {
	q := r.builder.
		Select(paymentCols...).
		From(paymentsTable).
		Where(squirrel.Eq{"purchase_id": purchaseID}).
		OrderBy("payment_date, created_at")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*payments.Payment
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}

	return items, nil
}

// SumPaidByPurchase returns the total paid against a purchase.
func (r *PaymentRepo) SumPaidByPurchase(ctx context.Context, purchaseID id.ID) (decimal.Decimal, error) {
	q := r.builder.
		Select("COALESCE(SUM(amount_paid), 0)").
		From(paymentsTable).
		Where(squirrel.Eq{"purchase_id": purchaseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}

	var total decimal.Decimal
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum paid: %w", err)
	}

	return total, nil
}

// List retrieves ledger entries with filtering and pagination.
func (r *PaymentRepo) List(ctx context.Context, filter payments.ListFilter) (domain.ListResult[*payments.Payment], error) {
	result := domain.ListResult[*payments.Payment]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.builder.
		Select(paymentCols...).
		From(paymentsTable)

	if filter.PurchaseID != nil {
		q = q.Where(squirrel.Eq{"purchase_id": *filter.PurchaseID})
	}
	if filter.FarmerID != nil {
		q = q.Where(squirrel.Expr(
			"purchase_id IN (SELECT id FROM purchases WHERE farmer_id = ?)",
			*filter.FarmerID))
	}
	if filter.Mode != "" {
		q = q.Where(squirrel.Eq{"mode": filter.Mode})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"payment_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"payment_date": *filter.ToDate})
	}

	countQ := r.builder.
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("payment_date DESC, created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list payments: %w", err)
	}

	return result, nil
}
