// Package payments keeps the ledger of amounts paid to farmers against
// their purchases.
package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
)

// Mode is the payment channel.
type Mode string

const (
	ModeCash   Mode = "CASH"
	ModeBank   Mode = "BANK"
	ModeUPI    Mode = "UPI"
	ModeCheque Mode = "CHEQUE"
)

// Payment is one ledger entry against a purchase.
type Payment struct {
	entity.BaseRecord

	PurchaseID  id.ID           `db:"purchase_id" json:"purchaseId"`
	PaymentDate time.Time       `db:"payment_date" json:"paymentDate"`
	AmountPaid  decimal.Decimal `db:"amount_paid" json:"amountPaid"`
	Mode        Mode            `db:"mode" json:"mode"`
	ReferenceNo *string         `db:"reference_no" json:"referenceNo,omitempty"`
	Remarks     *string         `db:"remarks" json:"remarks,omitempty"`
}

// NewPayment creates a new ledger entry.
func NewPayment(purchaseID id.ID, date time.Time, amount decimal.Decimal, mode Mode) *Payment {
	return &Payment{
		BaseRecord:  entity.NewBaseRecord(),
		PurchaseID:  purchaseID,
		PaymentDate: date,
		AmountPaid:  amount,
		Mode:        mode,
	}
}

// Validate implements entity.Validatable.
func (p *Payment) Validate(ctx context.Context) error {
	if id.IsNil(p.PurchaseID) {
		return apperror.NewValidation("purchase is required").
			WithDetail("field", "purchaseId")
	}
	if p.PaymentDate.IsZero() {
		return apperror.NewValidation("payment date is required").
			WithDetail("field", "paymentDate")
	}
	if p.AmountPaid.Sign() <= 0 {
		return apperror.NewValidation("amount must be positive").
			WithDetail("field", "amountPaid")
	}
	if !isValidMode(p.Mode) {
		return apperror.NewValidation("payment mode must be CASH, BANK, UPI or CHEQUE").
			WithDetail("field", "mode").
			WithDetail("value", string(p.Mode))
	}
	return nil
}

func isValidMode(m Mode) bool {
	switch m {
	case ModeCash, ModeBank, ModeUPI, ModeCheque:
		return true
	}
	return false
}
