// Package farmer provides the Farmer catalog.
// Farmers are the growers the business buys raw tobacco from; each carries
// bank/KYC details for payouts and an efficacy score from field assessments.
package farmer

import (
	"context"
	"regexp"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
)

// Pre-compiled regex patterns for validation
var (
	phoneRE = regexp.MustCompile(`^\d{10}$`)
	ifscRE  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

var maxEfficacy = decimal.NewFromInt(10)

// Farmer represents a registered grower.
type Farmer struct {
	entity.BaseRecord

	// FarmerCode is a human-readable unique identifier (auto-generated when blank)
	FarmerCode string `db:"farmer_code" json:"farmerCode"`

	Name    string `db:"name" json:"name"`
	Village string `db:"village" json:"village"`

	Phone       *string `db:"phone" json:"phone,omitempty"`
	BankAccount *string `db:"bank_account" json:"bankAccount,omitempty"`
	IFSCCode    *string `db:"ifsc_code" json:"ifscCode,omitempty"`
	IDProof     *string `db:"id_proof" json:"idProof,omitempty"`

	// EfficacyScore is a 0-10 assessment of delivery quality
	EfficacyScore *decimal.Decimal `db:"efficacy_score" json:"efficacyScore,omitempty"`
	EfficacyNotes *string          `db:"efficacy_notes" json:"efficacyNotes,omitempty"`

	// IsActive is the soft-delete flag; purchases keep referencing
	// inactive farmers
	IsActive bool `db:"is_active" json:"isActive"`
}

// NewFarmer creates a new active Farmer.
func NewFarmer(code, name, village string) *Farmer {
	return &Farmer{
		BaseRecord: entity.NewBaseRecord(),
		FarmerCode: code,
		Name:       name,
		Village:    village,
		IsActive:   true,
	}
}

// Validate implements entity.Validatable.
func (f *Farmer) Validate(ctx context.Context) error {
	if f.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}

	if f.Phone != nil && *f.Phone != "" && !phoneRE.MatchString(*f.Phone) {
		return apperror.NewValidation("phone must be 10 digits").
			WithDetail("field", "phone")
	}

	if f.IFSCCode != nil && *f.IFSCCode != "" && !ifscRE.MatchString(*f.IFSCCode) {
		return apperror.NewValidation("invalid IFSC code format").
			WithDetail("field", "ifscCode")
	}

	if f.EfficacyScore != nil {
		if f.EfficacyScore.Sign() < 0 || f.EfficacyScore.GreaterThan(maxEfficacy) {
			return apperror.NewValidation("efficacy score must be between 0 and 10").
				WithDetail("field", "efficacyScore").
				WithDetail("value", f.EfficacyScore.String())
		}
	}

	return nil
}
