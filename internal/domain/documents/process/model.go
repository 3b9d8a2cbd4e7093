// Package process provides the processing run over a lot, its status
// lifecycle, and wastage tracking.
package process

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/entity"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/derive"
)

// Status codes seeded at migration time.
const (
	StatusPending    = "PENDING"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusOnHold     = "ON_HOLD"
	StatusCancelled  = "CANCELLED"
)

// allowedTransitions maps a status code to the codes reachable from it.
// COMPLETED and CANCELLED have no outgoing edges.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusOnHold, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusOnHold, StatusCancelled},
	StatusOnHold:     {StatusInProgress, StatusCancelled},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// CanTransition reports whether from -> to is an allowed edge.
func CanTransition(from, to string) bool {
	for _, code := range allowedTransitions[from] {
		if code == to {
			return true
		}
	}
	return false
}

// Status is a lifecycle state row. The set is seeded but extensible,
// which is why it lives in a table instead of a CHECK constraint.
type Status struct {
	ID        id.ID     `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	SortOrder int       `db:"sort_order" json:"sortOrder"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// Process represents one processing run. Each lot enters processing at
// most once (lot_id is unique).
type Process struct {
	entity.BaseRecord

	ProcessCode string    `db:"process_code" json:"processCode"`
	LotID       id.ID     `db:"lot_id" json:"lotId"`
	StatusID    id.ID     `db:"status_id" json:"statusId"`
	StartDate   time.Time `db:"start_date" json:"startDate"`

	// InputWeight is copied from the lot's total at start time; later
	// lot edits do not touch it
	InputWeight decimal.Decimal `db:"input_weight" json:"inputWeight"`

	// Wastage components: soil/debris and stem/waste
	KadiMatiWeight decimal.Decimal `db:"kadi_mati_weight" json:"kadiMatiWeight"`
	DhasWeight     decimal.Decimal `db:"dhas_weight" json:"dhasWeight"`

	// EndDate is set when the process reaches COMPLETED
	EndDate *time.Time `db:"end_date" json:"endDate,omitempty"`

	Remarks *string `db:"remarks" json:"remarks,omitempty"`

	// StatusCode is joined in on reads, never written
	StatusCode string `db:"status_code" json:"statusCode"`
}

// TotalWastage sums the wastage categories.
func (p *Process) TotalWastage() decimal.Decimal {
	return derive.TotalWastage(p.KadiMatiWeight, p.DhasWeight)
}

// NetLoss is the input weight remaining after wastage.
func (p *Process) NetLoss() decimal.Decimal {
	return derive.NetLoss(p.InputWeight, p.TotalWastage())
}

// Validate implements entity.Validatable.
func (p *Process) Validate(ctx context.Context) error {
	if id.IsNil(p.LotID) {
		return apperror.NewValidation("lot is required").
			WithDetail("field", "lotId")
	}
	if p.StartDate.IsZero() {
		return apperror.NewValidation("start date is required").
			WithDetail("field", "startDate")
	}
	if p.KadiMatiWeight.Sign() < 0 {
		return apperror.NewValidation("kadi mati weight must not be negative").
			WithDetail("field", "kadiMatiWeight")
	}
	if p.DhasWeight.Sign() < 0 {
		return apperror.NewValidation("dhas weight must not be negative").
			WithDetail("field", "dhasWeight")
	}
	return nil
}

// StatusHistory is an append-only record of one status change.
type StatusHistory struct {
	ID           id.ID     `db:"id" json:"id"`
	ProcessID    id.ID     `db:"process_id" json:"processId"`
	FromStatusID *id.ID    `db:"from_status_id" json:"fromStatusId,omitempty"`
	ToStatusID   id.ID     `db:"to_status_id" json:"toStatusId"`
	ChangedBy    string    `db:"changed_by" json:"changedBy"`
	ChangedAt    time.Time `db:"changed_at" json:"changedAt"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`

	// Joined in on reads
	FromStatusCode *string `db:"from_status_code" json:"fromStatusCode,omitempty"`
	ToStatusCode   string  `db:"to_status_code" json:"toStatusCode"`
}
