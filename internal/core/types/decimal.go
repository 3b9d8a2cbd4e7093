// Package types provides common type aliases and utilities.
package types

import (
	"github.com/shopspring/decimal"
)

// Weight represents a weight in kilograms with full precision.
// Uses decimal.Decimal to avoid floating-point errors; persisted as
// DECIMAL(10,2).
type Weight = decimal.Decimal

// Money represents a monetary value in rupees, persisted as DECIMAL(12,2).
type Money = decimal.Decimal

// NewFromString creates a decimal value from a string.
// This is the preferred constructor for weights and amounts.
func NewFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustDecimal creates a decimal value from a string, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns the zero decimal value.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// Round2 rounds to two decimal places, matching the DECIMAL(_,2) column
// precision so application-side and stored values never drift.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// IsNegative reports whether d is below zero.
func IsNegative(d decimal.Decimal) bool {
	return d.Sign() < 0
}
