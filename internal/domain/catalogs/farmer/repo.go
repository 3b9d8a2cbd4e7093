package farmer

import (
	"context"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

// Repository defines persistence operations for the Farmer catalog.
type Repository interface {
	Create(ctx context.Context, f *Farmer) error
	Update(ctx context.Context, f *Farmer) error
	GetByID(ctx context.Context, farmerID id.ID) (*Farmer, error)
	GetByCode(ctx context.Context, code string) (*Farmer, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Farmer], error)

	// SetActive flips the soft-delete flag.
	SetActive(ctx context.Context, farmerID id.ID, active bool) error
}
