package farmer

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/pkg/logger"
	"leafbook/pkg/numerator"
)

// Service provides business logic for the Farmer catalog.
type Service struct {
	repo      Repository
	numerator *numerator.Service
}

// NewService creates a new Farmer service.
func NewService(repo Repository, num *numerator.Service) *Service {
	return &Service{
		repo:      repo,
		numerator: num,
	}
}

// Create registers a new farmer, generating a farmer code when none given.
func (s *Service) Create(ctx context.Context, f *Farmer) error {
	if err := f.Validate(ctx); err != nil {
		return err
	}

	if f.FarmerCode == "" {
		code, err := s.numerator.NextCode(ctx, numerator.DefaultConfig("FRM"), time.Now())
		if err != nil {
			return fmt.Errorf("generate farmer code: %w", err)
		}
		f.FarmerCode = code
	} else {
		exists, err := s.repo.ExistsByCode(ctx, f.FarmerCode)
		if err != nil {
			return err
		}
		if exists {
			return apperror.NewDuplicate("farmer", "farmer_code", f.FarmerCode)
		}
	}

	if err := s.repo.Create(ctx, f); err != nil {
		return err
	}

	logger.Info(ctx, "farmer registered",
		"id", f.ID,
		"farmer_code", f.FarmerCode)

	return nil
}

// GetByID retrieves a farmer.
func (s *Service) GetByID(ctx context.Context, farmerID id.ID) (*Farmer, error) {
	return s.repo.GetByID(ctx, farmerID)
}

// Update edits a farmer's profile.
func (s *Service) Update(ctx context.Context, f *Farmer) error {
	if err := f.Validate(ctx); err != nil {
		return err
	}

	f.Touch()
	return s.repo.Update(ctx, f)
}

// AssessEfficacy records a new efficacy score with notes.
func (s *Service) AssessEfficacy(ctx context.Context, farmerID id.ID, score decimal.Decimal, notes string) (*Farmer, error) {
	f, err := s.repo.GetByID(ctx, farmerID)
	if err != nil {
		return nil, err
	}

	f.EfficacyScore = &score
	if notes != "" {
		f.EfficacyNotes = &notes
	}

	if err := f.Validate(ctx); err != nil {
		return nil, err
	}

	f.Touch()
	if err := s.repo.Update(ctx, f); err != nil {
		return nil, err
	}

	logger.Info(ctx, "farmer efficacy assessed",
		"id", f.ID,
		"score", score.String())

	return f, nil
}

// Deactivate soft-deletes a farmer. Existing purchases keep their reference;
// the farmer simply stops appearing in active listings.
func (s *Service) Deactivate(ctx context.Context, farmerID id.ID) error {
	return s.repo.SetActive(ctx, farmerID, false)
}

// Reactivate clears the soft-delete flag.
func (s *Service) Reactivate(ctx context.Context, farmerID id.ID) error {
	return s.repo.SetActive(ctx, farmerID, true)
}

// List retrieves farmers with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Farmer], error) {
	return s.repo.List(ctx, filter)
}
