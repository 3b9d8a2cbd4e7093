package process

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/appctx"
	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
	"leafbook/internal/core/tx"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/lot"
	"leafbook/pkg/logger"
	"leafbook/pkg/numerator"
)

// Service provides business logic for the process lifecycle.
type Service struct {
	repo      Repository
	lotRepo   lot.Repository
	numerator *numerator.Service
	txManager tx.Manager
}

// NewService creates a new Process service.
func NewService(repo Repository, lotRepo lot.Repository, num *numerator.Service, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		lotRepo:   lotRepo,
		numerator: num,
		txManager: txManager,
	}
}

// Start begins processing a lot. The lot's current total input weight is
// snapshotted onto the process; the run opens in PENDING with an initial
// history entry.
func (s *Service) Start(ctx context.Context, lotID id.ID, startDate time.Time, remarks *string) (*Process, error) {
	l, err := s.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}

	pending, err := s.repo.GetStatusByCode(ctx, StatusPending)
	if err != nil {
		return nil, err
	}

	code, err := s.numerator.NextCode(ctx, numerator.DefaultConfig("PRC"), time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate process code: %w", err)
	}

	p := &Process{
		BaseRecord:  entity.NewBaseRecord(),
		ProcessCode: code,
		LotID:       lotID,
		StatusID:    pending.ID,
		StartDate:   startDate,
		InputWeight: l.TotalInputWeight,
		Remarks:     remarks,
		StatusCode:  pending.Code,
	}

	if err := p.Validate(ctx); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}

		h := &StatusHistory{
			ID:         id.New(),
			ProcessID:  p.ID,
			ToStatusID: pending.ID,
			ChangedBy:  appctx.GetUserEmail(ctx),
			ChangedAt:  time.Now(),
			Notes:      remarks,
		}
		return s.repo.AppendHistory(ctx, h)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "process started",
		"id", p.ID,
		"process_code", p.ProcessCode,
		"lot_id", lotID,
		"input_weight", p.InputWeight.String())

	return p, nil
}

// GetByID retrieves a process.
func (s *Service) GetByID(ctx context.Context, processID id.ID) (*Process, error) {
	return s.repo.GetByID(ctx, processID)
}

// List retrieves processes with filtering.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*Process], error) {
	return s.repo.List(ctx, filter)
}

// ListStatuses returns the status dictionary.
func (s *Service) ListStatuses(ctx context.Context) ([]*Status, error) {
	return s.repo.ListStatuses(ctx)
}

// History returns the process's status changes, oldest first.
func (s *Service) History(ctx context.Context, processID id.ID) ([]*StatusHistory, error) {
	if _, err := s.repo.GetByID(ctx, processID); err != nil {
		return nil, err
	}
	return s.repo.ListHistory(ctx, processID)
}

// Transition moves a process to a new status, appending a history entry
// in the same transaction. Completed processes reject all transitions.
func (s *Service) Transition(ctx context.Context, processID id.ID, toCode string, notes *string) (*Process, error) {
	target, err := s.repo.GetStatusByCode(ctx, toCode)
	if err != nil {
		return nil, err
	}

	var p *Process
	err = s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetForUpdate(ctx, processID)
		if err != nil {
			return err
		}

		if p.StatusCode == StatusCompleted {
			return apperror.NewTerminalState(processID.String())
		}

		if !CanTransition(p.StatusCode, target.Code) {
			return apperror.NewValidation(
				fmt.Sprintf("cannot transition from %s to %s", p.StatusCode, target.Code)).
				WithDetail("from", p.StatusCode).
				WithDetail("to", target.Code)
		}

		h := &StatusHistory{
			ID:           id.New(),
			ProcessID:    p.ID,
			FromStatusID: ptrID(p.StatusID),
			ToStatusID:   target.ID,
			ChangedBy:    appctx.GetUserEmail(ctx),
			ChangedAt:    time.Now(),
			Notes:        notes,
		}
		if err := s.repo.AppendHistory(ctx, h); err != nil {
			return err
		}

		p.StatusID = target.ID
		p.StatusCode = target.Code
		if target.Code == StatusCompleted {
			now := time.Now()
			p.EndDate = &now
		}
		p.Touch()
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "process status changed",
		"id", processID,
		"to", target.Code)

	return p, nil
}

// UpdateWastage records wastage weights on a running process. Completed
// processes are immutable.
func (s *Service) UpdateWastage(ctx context.Context, processID id.ID, kadiMati, dhas decimal.Decimal) (*Process, error) {
	if kadiMati.Sign() < 0 || dhas.Sign() < 0 {
		return nil, apperror.NewValidation("wastage weights must not be negative")
	}

	var p *Process
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		p, err = s.repo.GetForUpdate(ctx, processID)
		if err != nil {
			return err
		}

		if p.StatusCode == StatusCompleted {
			return apperror.NewTerminalState(processID.String())
		}

		p.KadiMatiWeight = kadiMati
		p.DhasWeight = dhas
		p.Touch()
		return s.repo.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "process wastage updated",
		"id", processID,
		"total_wastage", p.TotalWastage().String())

	return p, nil
}

func ptrID(v id.ID) *id.ID { return &v }
