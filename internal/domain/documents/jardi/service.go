package jardi

import (
	"context"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/core/tx"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/process"
	"leafbook/internal/domain/derive"
	"leafbook/pkg/logger"
)

// Service provides business logic for jardi output records.
type Service struct {
	repo        Repository
	processRepo process.Repository
	txManager   tx.Manager
}

// NewService creates a new jardi output service.
func NewService(repo Repository, processRepo process.Repository, txManager tx.Manager) *Service {
	return &Service{
		repo:        repo,
		processRepo: processRepo,
		txManager:   txManager,
	}
}

// Record stores the output of a completed process. Exactly one output
// per process; a second attempt returns a duplicate error.
func (s *Service) Record(ctx context.Context, o *Output) error {
	o.RecalculatePackedWeight()

	if err := o.Validate(ctx); err != nil {
		return err
	}

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		p, err := s.processRepo.GetForUpdate(ctx, o.ProcessID)
		if err != nil {
			return err
		}

		if p.StatusCode != process.StatusCompleted {
			return apperror.NewValidation("output can only be recorded for a completed process").
				WithDetail("process_id", o.ProcessID.String()).
				WithDetail("status", p.StatusCode)
		}

		if err := s.repo.Create(ctx, o); err != nil {
			return err
		}

		logger.Info(ctx, "jardi output recorded",
			"id", o.ID,
			"process_id", o.ProcessID,
			"jardi_weight", o.JardiWeight.String(),
			"total_packed_weight", o.TotalPackedWeight.String())

		return nil
	})
}

// Update edits an existing output record and recomputes the packed total.
func (s *Service) Update(ctx context.Context, o *Output) error {
	o.RecalculatePackedWeight()

	if err := o.Validate(ctx); err != nil {
		return err
	}

	current, err := s.repo.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	// The output stays attached to its process
	o.ProcessID = current.ProcessID

	o.Touch()
	return s.repo.Update(ctx, o)
}

// GetByID retrieves an output record.
func (s *Service) GetByID(ctx context.Context, outputID id.ID) (*Output, error) {
	return s.repo.GetByID(ctx, outputID)
}

// GetByProcessID retrieves the output of a process.
func (s *Service) GetByProcessID(ctx context.Context, processID id.ID) (*Output, error) {
	return s.repo.GetByProcessID(ctx, processID)
}

// List retrieves outputs with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Output], error) {
	return s.repo.List(ctx, filter)
}

// Yield summarizes input vs output for a process with a recorded output.
type Yield struct {
	ProcessID      id.ID  `json:"processId"`
	ProcessCode    string `json:"processCode"`
	InputWeight    string `json:"inputWeight"`
	JardiWeight    string `json:"jardiWeight"`
	TotalWastage   string `json:"totalWastage"`
	NetLoss        string `json:"netLoss"`
	LossPercentage string `json:"lossPercentage"`
}

// YieldForProcess computes the loss figures for a process from its
// output record.
func (s *Service) YieldForProcess(ctx context.Context, processID id.ID) (*Yield, error) {
	p, err := s.processRepo.GetByID(ctx, processID)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.GetByProcessID(ctx, processID)
	if err != nil {
		return nil, err
	}

	wastage := p.TotalWastage()
	return &Yield{
		ProcessID:      p.ID,
		ProcessCode:    p.ProcessCode,
		InputWeight:    p.InputWeight.String(),
		JardiWeight:    o.JardiWeight.String(),
		TotalWastage:   wastage.String(),
		NetLoss:        derive.NetLoss(p.InputWeight, wastage).String(),
		LossPercentage: derive.LossPercentage(wastage, p.InputWeight).String(),
	}, nil
}
