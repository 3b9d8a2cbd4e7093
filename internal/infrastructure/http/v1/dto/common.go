// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"time"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
)

// IDResponse is the standard response for create operations.
type IDResponse struct {
	ID id.ID `json:"id"`
}

// SuccessResponse is the standard response for operations without a body.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// ListQuery carries the common list parameters from the query string.
type ListQuery struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"includeInactive"`
	From            string `form:"from"`
	To              string `form:"to"`
	Limit           int    `form:"limit,default=50"`
	Offset          int    `form:"offset"`
}

// ToFilter converts the query into a domain filter.
func (q *ListQuery) ToFilter() (domain.ListFilter, error) {
	filter := domain.ListFilter{
		Search:          q.Search,
		IncludeInactive: q.IncludeInactive,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}

	from, err := ParseDatePtr(q.From)
	if err != nil {
		return filter, apperror.NewValidation("invalid from date").
			WithDetail("field", "from").WithCause(err)
	}
	filter.FromDate = from

	to, err := ParseDatePtr(q.To)
	if err != nil {
		return filter, apperror.NewValidation("invalid to date").
			WithDetail("field", "to").WithCause(err)
	}
	filter.ToDate = to

	return filter, nil
}

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// ParseDatePtr parses an optional date; empty string means nil.
func ParseDatePtr(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
