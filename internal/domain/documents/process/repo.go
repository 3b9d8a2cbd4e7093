package process

import (
	"context"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

// Repository defines persistence operations for processes, statuses and
// status history.
type Repository interface {
	Create(ctx context.Context, p *Process) error
	Update(ctx context.Context, p *Process) error
	GetByID(ctx context.Context, processID id.ID) (*Process, error)

	// GetForUpdate locks the process row so concurrent transitions
	// serialize.
	GetForUpdate(ctx context.Context, processID id.ID) (*Process, error)

	GetByLotID(ctx context.Context, lotID id.ID) (*Process, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*Process], error)

	ListStatuses(ctx context.Context) ([]*Status, error)
	GetStatusByID(ctx context.Context, statusID id.ID) (*Status, error)
	GetStatusByCode(ctx context.Context, code string) (*Status, error)

	AppendHistory(ctx context.Context, h *StatusHistory) error
	ListHistory(ctx context.Context, processID id.ID) ([]*StatusHistory, error)
}

// ListFilter extends the common filter with a status filter.
type ListFilter struct {
	domain.ListFilter

	StatusCode string
	LotID      *id.ID
}
