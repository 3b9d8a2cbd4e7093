package reports

import (
	"context"

	"leafbook/internal/core/apperror"
)

// Service validates report parameters and delegates to the repository.
type Service struct {
	repo Repository
}

// NewService creates a new report service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Dashboard returns the front-page summary for a period.
func (s *Service) Dashboard(ctx context.Context, period DateRange) (*Dashboard, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.Dashboard(ctx, period)
}

// PurchasesGrouped returns purchase totals grouped by date, farmer or
// village.
func (s *Service) PurchasesGrouped(ctx context.Context, groupBy GroupBy, period DateRange) ([]*PurchaseGroup, error) {
	switch groupBy {
	case GroupByDate, GroupByFarmer, GroupByVillage:
	default:
		return nil, apperror.NewValidation("group by must be date, farmer or village").
			WithDetail("value", string(groupBy))
	}
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.PurchasesGrouped(ctx, groupBy, period)
}

// FarmerBalances returns per-farmer outstanding amounts.
func (s *Service) FarmerBalances(ctx context.Context, period DateRange) ([]*FarmerBalance, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.FarmerBalances(ctx, period)
}

// ProcessYields returns loss figures for processes with recorded output.
func (s *Service) ProcessYields(ctx context.Context, period DateRange) ([]*ProcessYield, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}
	return s.repo.ProcessYields(ctx, period)
}

func validatePeriod(period DateRange) error {
	if period.From != nil && period.To != nil && period.To.Before(*period.From) {
		return apperror.NewValidation("period end must not precede period start")
	}
	return nil
}
