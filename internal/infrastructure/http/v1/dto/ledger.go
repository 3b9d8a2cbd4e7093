package dto

import (
	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/payments"
)

// PaymentRequest is the create/update body for ledger entries.
type PaymentRequest struct {
	PurchaseID  id.ID           `json:"purchaseId"`
	PaymentDate string          `json:"paymentDate"`
	AmountPaid  decimal.Decimal `json:"amountPaid"`
	Mode        string          `json:"mode"`
	ReferenceNo *string         `json:"referenceNo"`
	Remarks     *string         `json:"remarks"`
}

// ToModel builds a new Payment from the request.
func (r *PaymentRequest) ToModel() (*payments.Payment, error) {
	p := &payments.Payment{BaseRecord: entity.NewBaseRecord()}
	p.PurchaseID = r.PurchaseID
	if err := r.Apply(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Apply copies the editable fields onto a ledger entry. The purchase
// reference is pinned by the service on update.
func (r *PaymentRequest) Apply(p *payments.Payment) error {
	date, err := ParseDate(r.PaymentDate)
	if err != nil {
		return apperror.NewValidation("invalid payment date").
			WithDetail("field", "paymentDate").WithCause(err)
	}
	p.PaymentDate = date
	p.AmountPaid = r.AmountPaid
	p.Mode = payments.Mode(r.Mode)
	p.ReferenceNo = r.ReferenceNo
	p.Remarks = r.Remarks
	return nil
}
