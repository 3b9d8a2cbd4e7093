package purchase

import (
	"context"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/core/tx"
	"leafbook/internal/domain"
	"leafbook/pkg/logger"
)

// Service provides business logic for Purchase documents.
type Service struct {
	repo      Repository
	txManager tx.Manager
}

// NewService creates a new Purchase service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		txManager: txManager,
	}
}

// Create records a new purchase. Totals are always recomputed server-side,
// whatever the caller sent.
func (s *Service) Create(ctx context.Context, p *Purchase) error {
	p.RecalculateTotals()

	if err := p.Validate(ctx); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}

	logger.Info(ctx, "purchase recorded",
		"id", p.ID,
		"process_weight", p.ProcessWeight.String(),
		"total_amount", p.TotalAmount.String())

	return nil
}

// GetByID retrieves a purchase.
func (s *Service) GetByID(ctx context.Context, purchaseID id.ID) (*Purchase, error) {
	return s.repo.GetByID(ctx, purchaseID)
}

// Update edits a purchase and recomputes its totals. The edit is rejected
// when shrinking process_weight would leave existing lot allocations
// referencing more weight than the purchase holds.
func (s *Service) Update(ctx context.Context, p *Purchase) error {
	p.RecalculateTotals()

	if err := p.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		// Lock the row so concurrent allocations see either the old or
		// the new weight, never a torn state.
		if _, err := s.repo.GetForUpdate(ctx, p.ID); err != nil {
			return err
		}

		allocated, err := s.repo.AllocatedWeight(ctx, p.ID)
		if err != nil {
			return err
		}

		if p.ProcessWeight.LessThan(allocated) {
			return apperror.NewConflict("process weight cannot drop below the weight already allocated to lots").
				WithDetail("process_weight", p.ProcessWeight.String()).
				WithDetail("allocated_weight", allocated.String())
		}

		p.Touch()
		return s.repo.Update(ctx, p)
	})
}

// Delete removes a purchase. Purchases referenced by lot allocations
// cannot be deleted; the allocation must be removed first.
func (s *Service) Delete(ctx context.Context, purchaseID id.ID) error {
	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		allocated, err := s.repo.AllocatedWeight(ctx, purchaseID)
		if err != nil {
			return err
		}
		if allocated.Sign() > 0 {
			return apperror.NewConflict("purchase is allocated to one or more lots and cannot be deleted").
				WithDetail("allocated_weight", allocated.String())
		}

		if err := s.repo.Delete(ctx, purchaseID); err != nil {
			return err
		}

		logger.Info(ctx, "purchase deleted", "id", purchaseID)
		return nil
	})
}

// AvailableWeight returns how much of the purchase's process weight is
// still unallocated.
func (s *Service) AvailableWeight(ctx context.Context, purchaseID id.ID) (*Purchase, domain.WeightSummary, error) {
	p, err := s.repo.GetByID(ctx, purchaseID)
	if err != nil {
		return nil, domain.WeightSummary{}, err
	}

	allocated, err := s.repo.AllocatedWeight(ctx, purchaseID)
	if err != nil {
		return nil, domain.WeightSummary{}, err
	}

	return p, domain.WeightSummary{
		Total:     p.ProcessWeight,
		Used:      allocated,
		Available: p.ProcessWeight.Sub(allocated),
	}, nil
}

// List retrieves purchases with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Purchase], error) {
	return s.repo.List(ctx, filter)
}
