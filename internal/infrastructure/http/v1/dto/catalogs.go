package dto

import (
	"github.com/shopspring/decimal"

	"leafbook/internal/domain/catalogs/farmer"
)

// FarmerRequest is the create/update body for farmers.
type FarmerRequest struct {
	FarmerCode  string  `json:"farmerCode"`
	Name        string  `json:"name"`
	Village     string  `json:"village"`
	Phone       *string `json:"phone"`
	BankAccount *string `json:"bankAccount"`
	IFSCCode    *string `json:"ifscCode"`
	IDProof     *string `json:"idProof"`
}

// ToModel builds a new Farmer from the request.
func (r *FarmerRequest) ToModel() *farmer.Farmer {
	f := farmer.NewFarmer(r.FarmerCode, r.Name, r.Village)
	r.apply(f)
	return f
}

// Apply copies editable fields onto an existing farmer. Code, efficacy
// and the active flag are owned by their own operations.
func (r *FarmerRequest) Apply(f *farmer.Farmer) {
	f.Name = r.Name
	f.Village = r.Village
	r.apply(f)
}

func (r *FarmerRequest) apply(f *farmer.Farmer) {
	f.Phone = r.Phone
	f.BankAccount = r.BankAccount
	f.IFSCCode = r.IFSCCode
	f.IDProof = r.IDProof
}

// EfficacyRequest records a field assessment score.
type EfficacyRequest struct {
	Score decimal.Decimal `json:"score"`
	Notes string          `json:"notes"`
}
