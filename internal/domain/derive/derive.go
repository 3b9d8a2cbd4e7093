// Package derive holds the pure derivation formulas for weights and amounts.
// These functions are the single authority for every derived value in the
// system: stored derived columns are always written from here, never computed
// by the database engine, so behavior is identical across storage backends.
package derive

import (
	"github.com/shopspring/decimal"

	"leafbook/internal/core/types"
)

var hundred = decimal.NewFromInt(100)

// TotalWeight returns process weight plus packaging weight.
func TotalWeight(processWeight, packagingWeight decimal.Decimal) decimal.Decimal {
	return processWeight.Add(packagingWeight)
}

// TotalAmount returns the billable amount for a purchase:
// process weight times rate per kg, rounded to paise.
func TotalAmount(processWeight, ratePerKg decimal.Decimal) decimal.Decimal {
	return types.Round2(processWeight.Mul(ratePerKg))
}

// TotalWastage returns the combined wastage of a process run.
func TotalWastage(kadiMati, dhas decimal.Decimal) decimal.Decimal {
	return kadiMati.Add(dhas)
}

// NetLoss returns the weight remaining after wastage is removed from the
// input weight.
func NetLoss(inputWeight, totalWastage decimal.Decimal) decimal.Decimal {
	return inputWeight.Sub(totalWastage)
}

// TotalPacked returns the packed output weight.
// Nil package count or average weight is treated as zero.
func TotalPacked(numPackages *int, avgPackageWeight *decimal.Decimal) decimal.Decimal {
	if numPackages == nil || avgPackageWeight == nil {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(*numPackages)).Mul(*avgPackageWeight)
}

// LossPercentage returns wastage as a percentage of input weight.
// Zero input weight yields zero, not a division error.
func LossPercentage(totalWastage, inputWeight decimal.Decimal) decimal.Decimal {
	if !inputWeight.IsPositive() {
		return decimal.Zero
	}
	return types.Round2(totalWastage.Div(inputWeight).Mul(hundred))
}

// PendingAmount returns the outstanding balance of a purchase:
// total amount minus the sum of payments. Overpayment yields a
// negative value, reported as such.
func PendingAmount(totalAmount, totalPaid decimal.Decimal) decimal.Decimal {
	return totalAmount.Sub(totalPaid)
}
