package jardi

import (
	"context"

	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

// Repository defines persistence operations for jardi outputs.
type Repository interface {
	// Create inserts the output. A second output for the same process
	// fails with a duplicate error (process_id is unique).
	Create(ctx context.Context, o *Output) error
	Update(ctx context.Context, o *Output) error
	GetByID(ctx context.Context, outputID id.ID) (*Output, error)
	GetByProcessID(ctx context.Context, processID id.ID) (*Output, error)
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Output], error)
}
