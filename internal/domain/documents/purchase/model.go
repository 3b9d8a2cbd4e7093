// Package purchase provides the Purchase document: one delivery of raw
// tobacco from a farmer on a date.
package purchase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/derive"
)

// PackagingType defines the container the tobacco arrived in.
type PackagingType string

const (
	PackagingBodh PackagingType = "BODH"
	PackagingBag  PackagingType = "BAG"
)

// Purchase represents one delivery event.
// TotalWeight and TotalAmount are derived (see RecalculateTotals) and
// immutable except through recalculation.
type Purchase struct {
	entity.BaseRecord

	// FarmerID is nullable: deactivating or removing a farmer never
	// deletes their purchases
	FarmerID *id.ID `db:"farmer_id" json:"farmerId,omitempty"`

	PurchaseDate time.Time `db:"purchase_date" json:"purchaseDate"`

	// ProcessWeight is the billable tobacco weight
	ProcessWeight decimal.Decimal `db:"process_weight" json:"processWeight"`

	// PackagingWeight is the container weight, not billed
	PackagingWeight decimal.Decimal `db:"packaging_weight" json:"packagingWeight"`

	PackagingType PackagingType   `db:"packaging_type" json:"packagingType"`
	RatePerKg     decimal.Decimal `db:"rate_per_kg" json:"ratePerKg"`

	// Derived: process_weight + packaging_weight
	TotalWeight decimal.Decimal `db:"total_weight" json:"totalWeight"`

	// Derived: process_weight * rate_per_kg
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`

	Remarks *string `db:"remarks" json:"remarks,omitempty"`
}

// NewPurchase creates a new purchase and computes its derived totals.
func NewPurchase(farmerID id.ID, date time.Time, processWeight, packagingWeight, ratePerKg decimal.Decimal, pkgType PackagingType) *Purchase {
	p := &Purchase{
		BaseRecord:      entity.NewBaseRecord(),
		PurchaseDate:    date,
		ProcessWeight:   processWeight,
		PackagingWeight: packagingWeight,
		PackagingType:   pkgType,
		RatePerKg:       ratePerKg,
	}
	if !id.IsNil(farmerID) {
		p.FarmerID = &farmerID
	}
	p.RecalculateTotals()
	return p
}

// RecalculateTotals refreshes the derived columns from the inputs.
// This is the only place the stored values come from.
func (p *Purchase) RecalculateTotals() {
	p.TotalWeight = derive.TotalWeight(p.ProcessWeight, p.PackagingWeight)
	p.TotalAmount = derive.TotalAmount(p.ProcessWeight, p.RatePerKg)
}

// Validate implements entity.Validatable.
func (p *Purchase) Validate(ctx context.Context) error {
	if p.PurchaseDate.IsZero() {
		return apperror.NewValidation("purchase date is required").
			WithDetail("field", "purchaseDate")
	}

	if p.ProcessWeight.Sign() <= 0 {
		return apperror.NewValidation("process weight must be positive").
			WithDetail("field", "processWeight")
	}

	if p.PackagingWeight.Sign() < 0 {
		return apperror.NewValidation("packaging weight must not be negative").
			WithDetail("field", "packagingWeight")
	}

	if p.RatePerKg.Sign() < 0 {
		return apperror.NewValidation("rate per kg must not be negative").
			WithDetail("field", "ratePerKg")
	}

	if !isValidPackagingType(p.PackagingType) {
		return apperror.NewValidation("packaging type must be BODH or BAG").
			WithDetail("field", "packagingType").
			WithDetail("value", string(p.PackagingType))
	}

	return nil
}

func isValidPackagingType(t PackagingType) bool {
	switch t {
	case PackagingBodh, PackagingBag:
		return true
	}
	return false
}
