package purchase

import (
	"context"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

// Repository defines persistence operations for purchases.
type Repository interface {
	Create(ctx context.Context, p *Purchase) error
	Update(ctx context.Context, p *Purchase) error
	GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error)

	// GetForUpdate retrieves the purchase with a row-level lock.
	// Must be called inside a transaction; the allocation capacity check
	// depends on this lock to stay race-free.
	GetForUpdate(ctx context.Context, purchaseID id.ID) (*Purchase, error)

	// Delete removes the purchase. Fails with a conflict error while
	// lot_purchases or payments rows reference it.
	Delete(ctx context.Context, purchaseID id.ID) error

	// AllocatedWeight returns the sum of used_weight across all
	// allocations of the purchase.
	AllocatedWeight(ctx context.Context, purchaseID id.ID) (decimal.Decimal, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error)
}

// ListFilter extends the common filter with purchase-specific fields.
type ListFilter struct {
	domain.ListFilter

	FarmerID *id.ID
	Village  string
}
