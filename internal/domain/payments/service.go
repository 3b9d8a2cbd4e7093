package payments

import (
	"context"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/purchase"
	"leafbook/internal/domain/derive"
	"leafbook/pkg/logger"
)

// Service provides business logic for the payment ledger.
type Service struct {
	repo         Repository
	purchaseRepo purchase.Repository
}

// NewService creates a new payment ledger service.
func NewService(repo Repository, purchaseRepo purchase.Repository) *Service {
	return &Service{
		repo:         repo,
		purchaseRepo: purchaseRepo,
	}
}

// Record adds a ledger entry against a purchase. Overpayment is allowed:
// the pending amount simply goes negative on read.
func (s *Service) Record(ctx context.Context, p *Payment) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	if _, err := s.purchaseRepo.GetByID(ctx, p.PurchaseID); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "payment recorded",
		"id", p.ID,
		"purchase_id", p.PurchaseID,
		"amount", p.AmountPaid.String(),
		"mode", string(p.Mode))

	return nil
}

// Update edits a ledger entry. The entry stays attached to its purchase.
func (s *Service) Update(ctx context.Context, p *Payment) error {
	if err := p.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.PurchaseID = current.PurchaseID

	p.Touch()
	return s.repo.Update(ctx, p)
}

// Delete removes a ledger entry (a correction, not a refund record).
func (s *Service) Delete(ctx context.Context, paymentID id.ID) error {
	if err := s.repo.Delete(ctx, paymentID); err != nil {
		return err
	}
	logger.Info(ctx, "payment deleted", "id", paymentID)
	return nil
}

// GetByID retrieves a ledger entry.
func (s *Service) GetByID(ctx context.Context, paymentID id.ID) (*Payment, error) {
	return s.repo.GetByID(ctx, paymentID)
}

// List retrieves ledger entries with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Payment], error) {
	return s.repo.List(ctx, filter)
}

// PurchaseLedger is the payment view of one purchase.
type PurchaseLedger struct {
	PurchaseID    id.ID           `json:"purchaseId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	TotalPaid     decimal.Decimal `json:"totalPaid"`
	PendingAmount decimal.Decimal `json:"pendingAmount"`
	Payments      []*Payment      `json:"payments"`
}

// LedgerForPurchase returns all payments against a purchase together
// with the computed outstanding balance. The pending amount is derived
// on every read and never stored.
func (s *Service) LedgerForPurchase(ctx context.Context, purchaseID id.ID) (*PurchaseLedger, error) {
	pur, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	items, err := s.repo.ListByPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	paid, err := s.repo.SumPaidByPurchase(ctx, purchaseID)
	if err != nil {
		return nil, err
	}

	return &PurchaseLedger{
		PurchaseID:    purchaseID,
		TotalAmount:   pur.TotalAmount,
		TotalPaid:     paid,
		PendingAmount: derive.PendingAmount(pur.TotalAmount, paid),
		Payments:      items,
	}, nil
}
