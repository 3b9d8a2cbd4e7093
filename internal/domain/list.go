// Package domain holds types shared by all domain services.
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListFilter contains common list parameters.
type ListFilter struct {
	// Search matches against code and name columns (ILIKE)
	Search string

	// IncludeInactive includes soft-deleted rows
	IncludeInactive bool

	// Date range filter (applied to the entity's business date)
	FromDate *time.Time
	ToDate   *time.Time

	Limit  int
	Offset int
}

// ListResult wraps a page of items with the total row count.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
}

// WeightSummary reports capacity usage of a weight-bearing entity.
type WeightSummary struct {
	Total     decimal.Decimal `json:"total"`
	Used      decimal.Decimal `json:"used"`
	Available decimal.Decimal `json:"available"`
}
