package dto

import (
	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/documents/jardi"
	"leafbook/internal/domain/documents/lot"
	"leafbook/internal/domain/documents/purchase"
)

// PurchaseRequest is the create/update body for purchases.
type PurchaseRequest struct {
	FarmerID        *id.ID          `json:"farmerId"`
	PurchaseDate    string          `json:"purchaseDate"`
	ProcessWeight   decimal.Decimal `json:"processWeight"`
	PackagingWeight decimal.Decimal `json:"packagingWeight"`
	PackagingType   string          `json:"packagingType"`
	RatePerKg       decimal.Decimal `json:"ratePerKg"`
	Remarks         *string         `json:"remarks"`
}

// ToModel builds a new Purchase from the request.
func (r *PurchaseRequest) ToModel() (*purchase.Purchase, error) {
	p := &purchase.Purchase{BaseRecord: entity.NewBaseRecord()}
	if err := r.Apply(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply copies the request fields onto a purchase. Totals are recomputed
// by the service.
func (r *PurchaseRequest) Apply(p *purchase.Purchase) error {
	date, err := ParseDate(r.PurchaseDate)
	if err != nil {
		return apperror.NewValidation("invalid purchase date").
			WithDetail("field", "purchaseDate").WithCause(err)
	}

	p.FarmerID = r.FarmerID
	p.PurchaseDate = date
	p.ProcessWeight = r.ProcessWeight
	p.PackagingWeight = r.PackagingWeight
	p.PackagingType = purchase.PackagingType(r.PackagingType)
	p.RatePerKg = r.RatePerKg
	p.Remarks = r.Remarks
	return nil
}

// LotRequest is the create/update body for lots.
type LotRequest struct {
	LotCode string  `json:"lotCode"`
	LotDate string  `json:"lotDate"`
	Remarks *string `json:"remarks"`
}

// ToModel builds a new Lot from the request.
func (r *LotRequest) ToModel() (*lot.Lot, error) {
	l := &lot.Lot{BaseRecord: entity.NewBaseRecord()}
	l.LotCode = r.LotCode
	if err := r.Apply(l); err != nil {
		return nil, err
	}
	return l, nil
}

// Apply copies the editable fields onto a lot. The lot code is fixed at
// creation and the input weight is owned by allocations.
func (r *LotRequest) Apply(l *lot.Lot) error {
	date, err := ParseDate(r.LotDate)
	if err != nil {
		return apperror.NewValidation("invalid lot date").
			WithDetail("field", "lotDate").WithCause(err)
	}
	l.LotDate = date
	l.Remarks = r.Remarks
	return nil
}

// AllocationRequest assigns a slice of a purchase to a lot.
type AllocationRequest struct {
	PurchaseID id.ID           `json:"purchaseId"`
	UsedWeight decimal.Decimal `json:"usedWeight"`
}

// AllocationUpdateRequest changes an allocation's weight.
type AllocationUpdateRequest struct {
	UsedWeight decimal.Decimal `json:"usedWeight"`
}

// JardiOutputRequest is the create/update body for jardi output records.
type JardiOutputRequest struct {
	ProcessID        id.ID            `json:"processId"`
	JardiWeight      decimal.Decimal  `json:"jardiWeight"`
	Grade            *string          `json:"grade"`
	PackagingType    *string          `json:"packagingType"`
	NumPackages      *int             `json:"numPackages"`
	AvgPackageWeight *decimal.Decimal `json:"avgPackageWeight"`
	Remarks          *string          `json:"remarks"`
}

// ToModel builds a new Output from the request.
func (r *JardiOutputRequest) ToModel() *jardi.Output {
	o := jardi.NewOutput(r.ProcessID, r.JardiWeight)
	r.Apply(o)
	return o
}

// Apply copies the request fields onto an output record. The process
// reference is pinned by the service on update.
func (r *JardiOutputRequest) Apply(o *jardi.Output) {
	o.JardiWeight = r.JardiWeight
	o.Grade = r.Grade
	o.PackagingType = r.PackagingType
	o.NumPackages = r.NumPackages
	o.AvgPackageWeight = r.AvgPackageWeight
	o.Remarks = r.Remarks
}
