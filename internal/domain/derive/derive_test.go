package derive

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTotalWeight(t *testing.T) {
	got := TotalWeight(dec("100.50"), dec("4.25"))
	assert.True(t, got.Equal(dec("104.75")), "got %s", got)
}

func TestTotalAmount(t *testing.T) {
	cases := []struct {
		name          string
		processWeight string
		ratePerKg     string
		want          string
	}{
		{"whole numbers", "100", "150.00", "15000.00"},
		{"fractional weight", "50.5", "150.00", "7575.00"},
		{"rounds to paise", "33.33", "10.01", "333.63"},
		{"zero weight", "0", "150.00", "0.00"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TotalAmount(dec(tc.processWeight), dec(tc.ratePerKg))
			assert.True(t, got.Equal(dec(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestWastageAndNetLoss(t *testing.T) {
	wastage := TotalWastage(dec("5"), dec("3"))
	assert.True(t, wastage.Equal(dec("8")))

	net := NetLoss(dec("100"), wastage)
	assert.True(t, net.Equal(dec("92")))

	pct := LossPercentage(wastage, dec("100"))
	assert.True(t, pct.Equal(dec("8.00")), "got %s", pct)
}

func TestLossPercentage_ZeroInput(t *testing.T) {
	assert.True(t, LossPercentage(dec("5"), decimal.Zero).IsZero())
	assert.True(t, LossPercentage(dec("5"), dec("-1")).IsZero())
}

func TestTotalPacked(t *testing.T) {
	n := 10
	avg := dec("2.5")

	got := TotalPacked(&n, &avg)
	assert.True(t, got.Equal(dec("25.0")), "got %s", got)

	// nils treated as zero
	assert.True(t, TotalPacked(nil, &avg).IsZero())
	assert.True(t, TotalPacked(&n, nil).IsZero())
	assert.True(t, TotalPacked(nil, nil).IsZero())
}

func TestPendingAmount(t *testing.T) {
	total := TotalAmount(dec("50.5"), dec("150.00"))
	assert.True(t, total.Equal(dec("7575.00")))

	pending := PendingAmount(total, dec("5000.00"))
	assert.True(t, pending.Equal(dec("2575.00")))

	// overpayment is reported negative, never clamped
	pending = PendingAmount(total, dec("8000.00"))
	assert.True(t, pending.Equal(dec("-425.00")), "got %s", pending)
}

func TestDerivationsArePure(t *testing.T) {
	a, b := dec("12.34"), dec("5.66")

	first := TotalWeight(a, b)
	second := TotalWeight(a, b)
	assert.True(t, first.Equal(second))

	// inputs unchanged
	assert.True(t, a.Equal(dec("12.34")))
	assert.True(t, b.Equal(dec("5.66")))
}
