// Package reports provides read-only aggregate views over the record
// books. All figures are computed from the base tables at query time.
package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"leafbook/internal/core/id"
)

// DateRange bounds a report period. Zero values mean unbounded.
type DateRange struct {
	From *time.Time
	To   *time.Time
}

// Dashboard is the front-page summary.
type Dashboard struct {
	ActiveFarmers  int64 `json:"activeFarmers"`
	TotalPurchases int64 `json:"totalPurchases"`
	TotalLots      int64 `json:"totalLots"`

	TotalPurchasedWeight decimal.Decimal `json:"totalPurchasedWeight"`
	TotalPurchasedAmount decimal.Decimal `json:"totalPurchasedAmount"`
	TotalPaid            decimal.Decimal `json:"totalPaid"`
	TotalPending         decimal.Decimal `json:"totalPending"`

	ProcessesByStatus map[string]int64 `json:"processesByStatus"`
}

// PurchaseGroup is one row of a grouped purchase report.
type PurchaseGroup struct {
	Key           string          `db:"group_key" json:"key"`
	PurchaseCount int64           `db:"purchase_count" json:"purchaseCount"`
	TotalWeight   decimal.Decimal `db:"total_weight" json:"totalWeight"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"totalAmount"`
}

// FarmerBalance is one row of the outstanding-payments report.
type FarmerBalance struct {
	FarmerID    id.ID           `db:"farmer_id" json:"farmerId"`
	FarmerCode  string          `db:"farmer_code" json:"farmerCode"`
	FarmerName  string          `db:"farmer_name" json:"farmerName"`
	Village     string          `db:"village" json:"village"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"totalAmount"`
	TotalPaid   decimal.Decimal `db:"total_paid" json:"totalPaid"`
	Pending     decimal.Decimal `db:"pending" json:"pending"`
}

// ProcessYield is one row of the processing yield report.
type ProcessYield struct {
	ProcessID      id.ID           `db:"process_id" json:"processId"`
	ProcessCode    string          `db:"process_code" json:"processCode"`
	LotCode        string          `db:"lot_code" json:"lotCode"`
	InputWeight    decimal.Decimal `db:"input_weight" json:"inputWeight"`
	JardiWeight    decimal.Decimal `db:"jardi_weight" json:"jardiWeight"`
	TotalWastage   decimal.Decimal `db:"total_wastage" json:"totalWastage"`
	NetLoss        decimal.Decimal `db:"net_loss" json:"netLoss"`
	LossPercentage decimal.Decimal `db:"loss_percentage" json:"lossPercentage"`
}

// GroupBy selects the dimension of the purchase report.
type GroupBy string

const (
	GroupByDate    GroupBy = "date"
	GroupByFarmer  GroupBy = "farmer"
	GroupByVillage GroupBy = "village"
)

// Repository defines the aggregate queries.
type Repository interface {
	Dashboard(ctx context.Context, period DateRange) (*Dashboard, error)
	PurchasesGrouped(ctx context.Context, groupBy GroupBy, period DateRange) ([]*PurchaseGroup, error)
	FarmerBalances(ctx context.Context, period DateRange) ([]*FarmerBalance, error)
	ProcessYields(ctx context.Context, period DateRange) ([]*ProcessYield, error)
}
