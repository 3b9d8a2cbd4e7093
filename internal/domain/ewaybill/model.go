// Package ewaybill integrates with the government e-way bill portal for
// transport documents covering lot shipments.
package ewaybill

import (
	"context"
	"time"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
)

// Bill statuses.
const (
	StatusGenerated = "GENERATED"
	StatusFailed    = "FAILED"
)

// Bill is a stored e-way bill generation attempt for a lot. The portal's
// raw response is kept for audit; large payloads are stored compressed.
type Bill struct {
	ID          id.ID      `db:"id" json:"id"`
	LotID       id.ID      `db:"lot_id" json:"lotId"`
	BillNo      *string    `db:"bill_no" json:"billNo,omitempty"`
	Status      string     `db:"status" json:"status"`
	GeneratedAt *time.Time `db:"generated_at" json:"generatedAt,omitempty"`
	ValidUntil  *time.Time `db:"valid_until" json:"validUntil,omitempty"`
	RawResponse []byte     `db:"-" json:"-"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
}

// Request carries the shipment details sent to the portal.
type Request struct {
	LotCode       string `json:"lotCode"`
	VehicleNo     string `json:"vehicleNo"`
	FromPlace     string `json:"fromPlace"`
	ToPlace       string `json:"toPlace"`
	DistanceKm    int    `json:"distanceKm"`
	TransporterID string `json:"transporterId,omitempty"`
}

// Validate checks the shipment details before calling the portal.
func (r *Request) Validate(ctx context.Context) error {
	if r.VehicleNo == "" {
		return apperror.NewValidation("vehicle number is required").
			WithDetail("field", "vehicleNo")
	}
	if r.FromPlace == "" || r.ToPlace == "" {
		return apperror.NewValidation("from and to places are required")
	}
	if r.DistanceKm <= 0 {
		return apperror.NewValidation("distance must be positive").
			WithDetail("field", "distanceKm")
	}
	return nil
}

// Response is the portal's answer to a generation request.
type Response struct {
	BillNo      string    `json:"billNo"`
	GeneratedAt time.Time `json:"generatedAt"`
	ValidUntil  time.Time `json:"validUntil"`

	// Raw is the full response body as received
	Raw []byte `json:"-"`
}

// Client talks to the e-way bill portal.
type Client interface {
	Generate(ctx context.Context, req *Request) (*Response, error)
}
