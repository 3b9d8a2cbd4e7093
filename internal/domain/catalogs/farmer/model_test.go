package farmer

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leafbook/internal/core/apperror"
)

func strPtr(s string) *string { return &s }

func TestFarmerValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(f *Farmer)
		wantErr bool
	}{
		{"valid minimal", func(f *Farmer) {}, false},
		{"missing name", func(f *Farmer) { f.Name = "" }, true},
		{"valid phone", func(f *Farmer) { f.Phone = strPtr("9876543210") }, false},
		{"short phone", func(f *Farmer) { f.Phone = strPtr("98765") }, true},
		{"phone with letters", func(f *Farmer) { f.Phone = strPtr("98765abcde") }, true},
		{"empty phone allowed", func(f *Farmer) { f.Phone = strPtr("") }, false},
		{"valid ifsc", func(f *Farmer) { f.IFSCCode = strPtr("SBIN0001234") }, false},
		{"ifsc missing zero", func(f *Farmer) { f.IFSCCode = strPtr("SBIN1001234") }, true},
		{"ifsc too short", func(f *Farmer) { f.IFSCCode = strPtr("SBIN0001") }, true},
		{"efficacy in range", func(f *Farmer) {
			score := decimal.RequireFromString("7.5")
			f.EfficacyScore = &score
		}, false},
		{"efficacy at upper bound", func(f *Farmer) {
			score := decimal.NewFromInt(10)
			f.EfficacyScore = &score
		}, false},
		{"efficacy above range", func(f *Farmer) {
			score := decimal.RequireFromString("10.1")
			f.EfficacyScore = &score
		}, true},
		{"negative efficacy", func(f *Farmer) {
			score := decimal.NewFromInt(-1)
			f.EfficacyScore = &score
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFarmer("FRM-2026-00001", "Ramesh Patel", "Anand")
			tt.mutate(f)

			err := f.Validate(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNewFarmerIsActive(t *testing.T) {
	f := NewFarmer("", "Suresh Desai", "Kheda")
	assert.True(t, f.IsActive)
	assert.Equal(t, 1, f.Version)
}
