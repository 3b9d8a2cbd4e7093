package ewaybill

import (
	"context"
	"time"

	"leafbook/internal/core/id"
	"leafbook/internal/domain/documents/lot"
	"leafbook/pkg/logger"
)

// Service generates e-way bills for lot shipments and keeps every
// attempt, successful or not, on record.
type Service struct {
	repo    Repository
	lotRepo lot.Repository
	client  Client
}

// NewService creates a new e-way bill service.
func NewService(repo Repository, lotRepo lot.Repository, client Client) *Service {
	return &Service{
		repo:    repo,
		lotRepo: lotRepo,
		client:  client,
	}
}

// Generate requests an e-way bill from the portal for a lot shipment.
// A failed portal call is still persisted as a FAILED attempt, then the
// error is returned to the caller.
func (s *Service) Generate(ctx context.Context, lotID id.ID, req *Request) (*Bill, error) {
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	l, err := s.lotRepo.GetByID(ctx, lotID)
	if err != nil {
		return nil, err
	}
	req.LotCode = l.LotCode

	b := &Bill{
		ID:        id.New(),
		LotID:     lotID,
		CreatedAt: time.Now(),
	}

	resp, callErr := s.client.Generate(ctx, req)
	if callErr != nil {
		b.Status = StatusFailed
		if storeErr := s.repo.Create(ctx, b); storeErr != nil {
			logger.Error(ctx, "failed to persist e-way bill attempt",
				"lot_id", lotID, "error", storeErr)
		}
		return nil, callErr
	}

	b.Status = StatusGenerated
	b.BillNo = &resp.BillNo
	b.GeneratedAt = &resp.GeneratedAt
	b.ValidUntil = &resp.ValidUntil
	b.RawResponse = resp.Raw

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	logger.Info(ctx, "e-way bill generated",
		"id", b.ID,
		"lot_id", lotID,
		"bill_no", resp.BillNo)

	return b, nil
}

// GetByID retrieves a stored bill.
func (s *Service) GetByID(ctx context.Context, billID id.ID) (*Bill, error) {
	return s.repo.GetByID(ctx, billID)
}

// ListByLot returns all bill attempts for a lot, newest first.
func (s *Service) ListByLot(ctx context.Context, lotID id.ID) ([]*Bill, error) {
	if _, err := s.lotRepo.GetByID(ctx, lotID); err != nil {
		return nil, err
	}
	return s.repo.ListByLot(ctx, lotID)
}
