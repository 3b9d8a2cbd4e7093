// Package lot provides the Lot document and purchase allocation.
// A lot is a processing batch assembled from slices of one or more
// purchases; the invariant is that no purchase is ever over-allocated.
package lot

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
)

// Lot represents a processing batch.
// TotalInputWeight is always recomputed as the sum of its allocations,
// never incremented in place.
type Lot struct {
	entity.BaseRecord

	// LotCode is a human-readable unique identifier (auto-generated when blank)
	LotCode string `db:"lot_code" json:"lotCode"`

	LotDate time.Time `db:"lot_date" json:"lotDate"`

	TotalInputWeight decimal.Decimal `db:"total_input_weight" json:"totalInputWeight"`

	Remarks *string `db:"remarks" json:"remarks,omitempty"`
}

// NewLot creates a new empty lot.
func NewLot(code string, date time.Time) *Lot {
	return &Lot{
		BaseRecord: entity.NewBaseRecord(),
		LotCode:    code,
		LotDate:    date,
	}
}

// Validate implements entity.Validatable.
func (l *Lot) Validate(ctx context.Context) error {
	if l.LotDate.IsZero() {
		return apperror.NewValidation("lot date is required").
			WithDetail("field", "lotDate")
	}
	return nil
}

// Allocation ties a slice of a purchase's process weight to a lot.
// One purchase can appear in a lot at most once.
type Allocation struct {
	ID         id.ID           `db:"id" json:"id"`
	LotID      id.ID           `db:"lot_id" json:"lotId"`
	PurchaseID id.ID           `db:"purchase_id" json:"purchaseId"`
	UsedWeight decimal.Decimal `db:"used_weight" json:"usedWeight"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// NewAllocation creates a new allocation row.
func NewAllocation(lotID, purchaseID id.ID, usedWeight decimal.Decimal) *Allocation {
	return &Allocation{
		ID:         id.New(),
		LotID:      lotID,
		PurchaseID: purchaseID,
		UsedWeight: usedWeight,
		CreatedAt:  time.Now(),
	}
}

// Validate checks the allocation inputs. Capacity is checked separately,
// under a row lock.
func (a *Allocation) Validate(ctx context.Context) error {
	if id.IsNil(a.LotID) {
		return apperror.NewValidation("lot is required").
			WithDetail("field", "lotId")
	}
	if id.IsNil(a.PurchaseID) {
		return apperror.NewValidation("purchase is required").
			WithDetail("field", "purchaseId")
	}
	if a.UsedWeight.Sign() <= 0 {
		return apperror.NewValidation("used weight must be positive").
			WithDetail("field", "usedWeight")
	}
	return nil
}
