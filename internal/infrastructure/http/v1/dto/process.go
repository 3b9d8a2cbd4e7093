package dto

import (
	"github.com/shopspring/decimal"

	"leafbook/internal/core/id"
)

// ProcessStartRequest opens a processing run on a lot.
type ProcessStartRequest struct {
	LotID     id.ID   `json:"lotId"`
	StartDate string  `json:"startDate"`
	Remarks   *string `json:"remarks"`
}

// TransitionRequest moves a process to a new status.
type TransitionRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

// WastageRequest records wastage weights on a process.
type WastageRequest struct {
	KadiMatiWeight decimal.Decimal `json:"kadiMatiWeight"`
	DhasWeight     decimal.Decimal `json:"dhasWeight"`
}
