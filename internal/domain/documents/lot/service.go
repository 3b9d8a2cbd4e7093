package lot

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/core/tx"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/purchase"
	"leafbook/pkg/logger"
	"leafbook/pkg/numerator"
)

// Service provides business logic for lots and purchase allocation.
type Service struct {
	repo         Repository
	purchaseRepo purchase.Repository
	numerator    *numerator.Service
	txManager    tx.Manager
}

// NewService creates a new Lot service.
func NewService(repo Repository, purchaseRepo purchase.Repository, num *numerator.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:         repo,
		purchaseRepo: purchaseRepo,
		numerator:    num,
		txManager:    txManager,
	}
}

// Create opens a new lot, generating a lot code when none given.
func (s *Service) Create(ctx context.Context, l *Lot) error {
	if err := l.Validate(ctx); err != nil {
		return err
	}

	if l.LotCode == "" {
		code, err := s.numerator.NextCode(ctx, numerator.DefaultConfig("LOT"), time.Now())
		if err != nil {
			return fmt.Errorf("generate lot code: %w", err)
		}
		l.LotCode = code
	} else {
		exists, err := s.repo.ExistsByCode(ctx, l.LotCode)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("lot", "lot_code", l.LotCode)
		}
	}

	// A fresh lot has no allocations yet
	l.TotalInputWeight = decimal.Zero

	if err := s.repo.Create(ctx, l); err != nil {
		return err
	}

	logger.Info(ctx, "lot created", "id", l.ID, "lot_code", l.LotCode)
	return nil
}

// GetByID retrieves a lot.
func (s *Service) GetByID(ctx context.Context, lotID id.ID) (*Lot, error) {
	return s.repo.GetByID(ctx, lotID)
}

// Update edits a lot's date and remarks. TotalInputWeight is owned by the
// allocation operations and never taken from the caller.
func (s *Service) Update(ctx context.Context, l *Lot) error {
	if err := l.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, l.ID)
	if err != nil {
		return err
	}
	l.TotalInputWeight = current.TotalInputWeight

	l.Touch()
	return s.repo.Update(ctx, l)
}

// Delete removes a lot and its allocations. Lots that already entered
// processing cannot be deleted.
func (s *Service) Delete(ctx context.Context, lotID id.ID) error {
	if err := s.repo.Delete(ctx, lotID); err != nil {
		return err
	}
	logger.Info(ctx, "lot deleted", "id", lotID)
	return nil
}

// List retrieves lots with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Lot], error) {
	return s.repo.List(ctx, filter)
}

// Composition returns the lot's allocation rows.
func (s *Service) Composition(ctx context.Context, lotID id.ID) ([]*Allocation, error) {
	if _, err := s.repo.GetByID(ctx, lotID); err != nil {
		return nil, err
	}
	return s.repo.ListAllocationsByLot(ctx, lotID)
}

// Allocate assigns a slice of a purchase's process weight to a lot.
// Allocating the same purchase to the same lot again replaces the
// previous weight instead of stacking a second row.
//
// The capacity check runs inside a transaction holding a row lock on the
// purchase, so two concurrent allocations against the same purchase
// serialize and the second sees the first's usage.
func (s *Service) Allocate(ctx context.Context, lotID, purchaseID id.ID, usedWeight decimal.Decimal) (*Allocation, error) {
	a := NewAllocation(lotID, purchaseID, usedWeight)
	if err := a.Validate(ctx); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetByID(ctx, lotID); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.purchaseRepo.GetForUpdate(ctx, purchaseID)
		if err != nil {
			return err
		}

		existing, err := s.repo.GetAllocationByPair(ctx, lotID, purchaseID)
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}

		var exclude *id.ID
		if existing != nil {
			exclude = &existing.ID
		}

		if err := s.checkCapacity(ctx, p, usedWeight, exclude); err != nil {
			return err
		}

		if existing != nil {
			existing.UsedWeight = usedWeight
			if err := s.repo.UpdateAllocation(ctx, existing); err != nil {
				return err
			}
			a = existing
		} else {
			if err := s.repo.CreateAllocation(ctx, a); err != nil {
				return err
			}
		}

		return s.refreshLotTotal(ctx, lotID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "purchase allocated to lot",
		"lot_id", lotID,
		"purchase_id", purchaseID,
		"used_weight", usedWeight.String())

	return a, nil
}

// UpdateAllocation changes the weight of an existing allocation, under the
// same row lock and capacity check as Allocate.
func (s *Service) UpdateAllocation(ctx context.Context, allocationID id.ID, usedWeight decimal.Decimal) (*Allocation, error) {
	if usedWeight.Sign() <= 0 {
		return nil, apperror.NewValidation("used weight must be positive").
			WithDetail("field", "usedWeight")
	}

	var a *Allocation
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		a, err = s.repo.GetAllocation(ctx, allocationID)
		if err != nil {
			return err
		}

		p, err := s.purchaseRepo.GetForUpdate(ctx, a.PurchaseID)
		if err != nil {
			return err
		}

		if err := s.checkCapacity(ctx, p, usedWeight, &a.ID); err != nil {
			return err
		}

		a.UsedWeight = usedWeight
		if err := s.repo.UpdateAllocation(ctx, a); err != nil {
			return err
		}

		return s.refreshLotTotal(ctx, a.LotID)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "allocation updated",
		"allocation_id", allocationID,
		"used_weight", usedWeight.String())

	return a, nil
}

// Deallocate removes a purchase slice from a lot and recomputes the lot
// total.
func (s *Service) Deallocate(ctx context.Context, allocationID id.ID) error {
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAllocation(ctx, allocationID)
		if err != nil {
			return err
		}

		if err := s.repo.DeleteAllocation(ctx, allocationID); err != nil {
			return err
		}

		return s.refreshLotTotal(ctx, a.LotID)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "allocation removed", "allocation_id", allocationID)
	return nil
}

// checkCapacity verifies that the requested weight fits in the purchase's
// unallocated remainder. The caller must hold the purchase row lock.
func (s *Service) checkCapacity(ctx context.Context, p *purchase.Purchase, requested decimal.Decimal, exclude *id.ID) error {
	used, err := s.repo.SumUsedWeightByPurchase(ctx, p.ID, exclude)
	if err != nil {
		return err
	}

	available := p.ProcessWeight.Sub(used)
	if requested.GreaterThan(available) {
		return apperror.NewCapacityExceeded(p.ID.String(), requested, available)
	}
	return nil
}

// refreshLotTotal recomputes total_input_weight from the allocation rows.
func (s *Service) refreshLotTotal(ctx context.Context, lotID id.ID) error {
	total, err := s.repo.SumUsedWeightByLot(ctx, lotID)
	if err != nil {
		return err
	}
	return s.repo.SetTotalInputWeight(ctx, lotID, total)
}
