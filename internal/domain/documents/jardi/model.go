// Package jardi records the final output of a processing run: the jardi
// (finished product) weight plus an optional packaging breakdown.
package jardi

import (
	"context"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/derive"
)

// Output is the single output record of a process.
type Output struct {
	entity.BaseRecord

	ProcessID id.ID `db:"process_id" json:"processId"`

	JardiWeight decimal.Decimal `db:"jardi_weight" json:"jardiWeight"`

	Grade         *string `db:"grade" json:"grade,omitempty"`
	PackagingType *string `db:"packaging_type" json:"packagingType,omitempty"`

	// Packaging breakdown; nulls are treated as zero in the packed total
	NumPackages      *int             `db:"num_packages" json:"numPackages,omitempty"`
	AvgPackageWeight *decimal.Decimal `db:"avg_package_weight" json:"avgPackageWeight,omitempty"`

	// Derived: num_packages * avg_package_weight
	TotalPackedWeight decimal.Decimal `db:"total_packed_weight" json:"totalPackedWeight"`

	Remarks *string `db:"remarks" json:"remarks,omitempty"`
}

// NewOutput creates an output record and computes the packed weight.
func NewOutput(processID id.ID, jardiWeight decimal.Decimal) *Output {
	o := &Output{
		BaseRecord:  entity.NewBaseRecord(),
		ProcessID:   processID,
		JardiWeight: jardiWeight,
	}
	o.RecalculatePackedWeight()
	return o
}

// RecalculatePackedWeight refreshes the derived packed total.
func (o *Output) RecalculatePackedWeight() {
	o.TotalPackedWeight = derive.TotalPacked(o.NumPackages, o.AvgPackageWeight)
}

// Validate implements entity.Validatable.
func (o *Output) Validate(ctx context.Context) error {
	if id.IsNil(o.ProcessID) {
		return apperror.NewValidation("process is required").
			WithDetail("field", "processId")
	}
	if o.JardiWeight.Sign() < 0 {
		return apperror.NewValidation("jardi weight must not be negative").
			WithDetail("field", "jardiWeight")
	}
	if o.NumPackages != nil && *o.NumPackages < 0 {
		return apperror.NewValidation("number of packages must not be negative").
			WithDetail("field", "numPackages")
	}
	if o.AvgPackageWeight != nil && o.AvgPackageWeight.Sign() < 0 {
		return apperror.NewValidation("average package weight must not be negative").
			WithDetail("field", "avgPackageWeight")
	}
	return nil
}
