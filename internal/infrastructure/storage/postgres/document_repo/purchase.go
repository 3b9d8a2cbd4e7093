package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/purchase"
	"leafbook/internal/infrastructure/storage/postgres"
)

const purchasesTable = "purchases"

var purchaseCols = postgres.ExtractDBColumns[purchase.Purchase]()

var _ purchase.Repository = (*PurchaseRepo)(nil)

// PurchaseRepo implements purchase.Repository.
type PurchaseRepo struct {
	*BaseDocumentRepo[*purchase.Purchase]
}

// NewPurchaseRepo creates a new purchase repository.
func NewPurchaseRepo(txm *postgres.TxManager) *PurchaseRepo {
	return &PurchaseRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			purchasesTable,
			purchaseCols,
			"purchase_date",
			func() *purchase.Purchase { return &purchase.Purchase{} },
		),
	}
}

// AllocatedWeight sums used_weight across all lot allocations of the purchase.
func (r *PurchaseRepo) AllocatedWeight(ctx context.Context, purchaseID id.ID) (decimal.Decimal, error) {
	q := r.Builder().
		Select("COALESCE(SUM(used_weight), 0)").
		From("lot_purchases").
		Where(squirrel.Eq{"purchase_id": purchaseID})

	sql, args, err := q.ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("build query: %w", err)
	}

	var total decimal.Decimal
	if err := r.querier(ctx).QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("sum allocated weight: %w", err)
	}

	return total, nil
}

// List retrieves purchases with purchase-specific filters.
func (r *PurchaseRepo) List(ctx context.Context, filter purchase.ListFilter) (domain.ListResult[*purchase.Purchase], error) {
	return r.BaseDocumentRepo.List(ctx, filter.ListFilter, func(q squirrel.SelectBuilder) squirrel.SelectBuilder {
		if filter.FarmerID != nil {
			q = q.Where(squirrel.Eq{"farmer_id": *filter.FarmerID})
		}
		if filter.Village != "" {
			q = q.Where(squirrel.Expr(
				"farmer_id IN (SELECT id FROM farmers WHERE village ILIKE ?)",
				"%"+filter.Village+"%"))
		}
		return q
	})
}
