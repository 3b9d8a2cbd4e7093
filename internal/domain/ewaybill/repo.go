package ewaybill

import (
	"context"

	"leafbook/internal/core/id"
)

// Repository defines persistence operations for stored e-way bills.
type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, billID id.ID) (*Bill, error)
	ListByLot(ctx context.Context, lotID id.ID) ([]*Bill, error)
}
