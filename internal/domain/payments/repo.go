package payments

import (
	"context"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

// Repository defines persistence operations for the payment ledger.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Update(ctx context.Context, p *Payment) error
	Delete(ctx context.Context, paymentID id.ID) error
	GetByID(ctx context.Context, paymentID id.ID) (*Payment, error)
	ListByPurchase(ctx context.Context, purchaseID id.ID) ([]*Payment, error)

	// SumPaidByPurchase returns the total amount paid against a purchase.
	SumPaidByPurchase(ctx context.Context, purchaseID id.ID) (decimal.Decimal, error)

	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error)
}

// ListFilter extends the common filter with ledger-specific fields.
type ListFilter struct {
	domain.ListFilter

	PurchaseID *id.ID
	FarmerID   *id.ID
	Mode       Mode
}
