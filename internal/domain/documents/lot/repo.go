package lot

import (
	"context"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

// Repository defines persistence operations for lots and their allocations.
type Repository interface {
	Create(ctx context.Context, l *Lot) error
	Update(ctx context.Context, l *Lot) error
	GetByID(ctx context.Context, lotID id.ID) (*Lot, error)
	GetByCode(ctx context.Context, code string) (*Lot, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Lot], error)

	// Delete removes the lot; allocations go with it (ON DELETE CASCADE).
	// Fails with a conflict error once a process references the lot.
	Delete(ctx context.Context, lotID id.ID) error

	CreateAllocation(ctx context.Context, a *Allocation) error
	UpdateAllocation(ctx context.Context, a *Allocation) error
	DeleteAllocation(ctx context.Context, allocationID id.ID) error
	GetAllocation(ctx context.Context, allocationID id.ID) (*Allocation, error)

	// GetAllocationByPair finds the allocation of a purchase within a lot,
	// or a not-found error.
	GetAllocationByPair(ctx context.Context, lotID, purchaseID id.ID) (*Allocation, error)

	ListAllocationsByLot(ctx context.Context, lotID id.ID) ([]*Allocation, error)
	ListAllocationsByPurchase(ctx context.Context, purchaseID id.ID) ([]*Allocation, error)

	// SumUsedWeightByPurchase returns the purchase's total allocated
	// weight, optionally excluding one allocation (for updates).
	SumUsedWeightByPurchase(ctx context.Context, purchaseID id.ID, exclude *id.ID) (decimal.Decimal, error)

	// SumUsedWeightByLot returns the lot's total input weight from its
	// allocation rows.
	SumUsedWeightByLot(ctx context.Context, lotID id.ID) (decimal.Decimal, error)

	// SetTotalInputWeight writes the recomputed lot total.
	SetTotalInputWeight(ctx context.Context, lotID id.ID, weight decimal.Decimal) error
}
