// Package report_repo provides PostgreSQL implementations for the
// aggregate report queries.
package report_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"leafbook/internal/domain/reports"
	"leafbook/internal/infrastructure/storage/postgres"
)

var _ reports.Repository = (*ReportRepo)(nil)

// ReportRepo implements reports.Repository.
type ReportRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewReportRepo creates a new report repository.
func NewReportRepo(txm *postgres.TxManager) *ReportRepo {
	return &ReportRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ReportRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// periodCond renders a date-range condition for a column.
func periodCond(col string, period reports.DateRange) squirrel.And {
	cond := squirrel.And{}
	if period.From != nil {
		cond = append(cond, squirrel.GtOrEq{col: *period.From})
	}
	if period.To != nil {
		cond = append(cond, squirrel.LtOrEq{col: *period.To})
	}
	return cond
}

// Dashboard computes the front-page summary in a handful of aggregate
// queries. Pending is derived (purchases minus payments), never stored.
func (r *ReportRepo) Dashboard(ctx context.Context, period reports.DateRange) (*reports.Dashboard, error) {
	d := &reports.Dashboard{
		ProcessesByStatus: make(map[string]int64),
	}

	querier := r.querier(ctx)

	if err := querier.QueryRow(ctx,
		`SELECT COUNT(*) FROM farmers WHERE is_active`).Scan(&d.ActiveFarmers); err != nil {
		return nil, fmt.Errorf("count farmers: %w", err)
	}

	purchaseQ := r.builder.
		Select(
			"COUNT(*)",
			"COALESCE(SUM(total_weight), 0)",
			"COALESCE(SUM(total_amount), 0)",
		).
		From("purchases").
		Where(periodCond("purchase_date", period))

	sql, args, err := purchaseQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build purchase totals: %w", err)
	}
	if err := querier.QueryRow(ctx, sql, args...).Scan(
		&d.TotalPurchases, &d.TotalPurchasedWeight, &d.TotalPurchasedAmount); err != nil {
		return nil, fmt.Errorf("purchase totals: %w", err)
	}

	lotQ := r.builder.
		Select("COUNT(*)").
		From("lots").
		Where(periodCond("lot_date", period))

	sql, args, err = lotQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lot count: %w", err)
	}
	if err := querier.QueryRow(ctx, sql, args...).Scan(&d.TotalLots); err != nil {
		return nil, fmt.Errorf("count lots: %w", err)
	}

	paidQ := r.builder.
		Select("COALESCE(SUM(amount_paid), 0)").
		From("payments").
		Where(periodCond("payment_date", period))

	sql, args, err = paidQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build paid total: %w", err)
	}
	if err := querier.QueryRow(ctx, sql, args...).Scan(&d.TotalPaid); err != nil {
		return nil, fmt.Errorf("paid total: %w", err)
	}

	d.TotalPending = d.TotalPurchasedAmount.Sub(d.TotalPaid)

	statusQ := r.builder.
		Select("s.code", "COUNT(*)").
		From("process p").
		Join("process_status s ON s.id = p.status_id").
		GroupBy("s.code")

	sql, args, err = statusQ.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build status counts: %w", err)
	}
	rows, err := querier.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var code string
		var count int64
		if err := rows.Scan(&code, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		d.ProcessesByStatus[code] = count
	}

	return d, rows.Err()
}

// PurchasesGrouped returns purchase totals grouped by the requested
// dimension.
func (r *ReportRepo) PurchasesGrouped(ctx context.Context, groupBy reports.GroupBy, period reports.DateRange) ([]*reports.PurchaseGroup, error) {
	var keyExpr string
	switch groupBy {
	case reports.GroupByDate:
		keyExpr = "p.purchase_date::text"
	case reports.GroupByFarmer:
		keyExpr = "COALESCE(f.name, '(no farmer)')"
	case reports.GroupByVillage:
		keyExpr = "COALESCE(f.village, '(no village)')"
	default:
		return nil, fmt.Errorf("unknown group dimension: %s", groupBy)
	}

	q := r.builder.
		Select(
			keyExpr+" AS group_key",
			"COUNT(*) AS purchase_count",
			"COALESCE(SUM(p.total_weight), 0) AS total_weight",
			"COALESCE(SUM(p.total_amount), 0) AS total_amount",
		).
		From("purchases p").
		LeftJoin("farmers f ON f.id = p.farmer_id").
		Where(periodCond("p.purchase_date", period)).
		GroupBy(keyExpr).
		OrderBy("group_key")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build grouped purchases: %w", err)
	}

	var items []*reports.PurchaseGroup
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("grouped purchases: %w", err)
	}

	return items, nil
}

// FarmerBalances returns per-farmer purchase totals, paid totals and the
// derived pending amount.
func (r *ReportRepo) FarmerBalances(ctx context.Context, period reports.DateRange) ([]*reports.FarmerBalance, error) {
	q := r.builder.
		Select(
			"f.id AS farmer_id",
			"f.farmer_code",
			"f.name AS farmer_name",
			"f.village",
			"COALESCE(SUM(p.total_amount), 0) AS total_amount",
			"COALESCE((SELECT SUM(pm.amount_paid) FROM payments pm WHERE pm.purchase_id IN (SELECT id FROM purchases WHERE farmer_id = f.id)), 0) AS total_paid",
			"COALESCE(SUM(p.total_amount), 0) - COALESCE((SELECT SUM(pm.amount_paid) FROM payments pm WHERE pm.purchase_id IN (SELECT id FROM purchases WHERE farmer_id = f.id)), 0) AS pending",
		).
		From("farmers f").
		LeftJoin("purchases p ON p.farmer_id = f.id").
		Where(periodCond("p.purchase_date", period)).
		GroupBy("f.id", "f.farmer_code", "f.name", "f.village").
		OrderBy("f.name")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build farmer balances: %w", err)
	}

	var items []*reports.FarmerBalance
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("farmer balances: %w", err)
	}

	return items, nil
}

// ProcessYields returns loss figures for processes that have a recorded
// output.
func (r *ReportRepo) ProcessYields(ctx context.Context, period reports.DateRange) ([]*reports.ProcessYield, error) {
	q := r.builder.
		Select(
			"p.id AS process_id",
			"p.process_code",
			"l.lot_code",
			"p.input_weight",
			"j.jardi_weight",
			"p.kadi_mati_weight + p.dhas_weight AS total_wastage",
			"p.input_weight - (p.kadi_mati_weight + p.dhas_weight) AS net_loss",
			`CASE WHEN p.input_weight > 0
				THEN ROUND((p.kadi_mati_weight + p.dhas_weight) / p.input_weight * 100, 2)
				ELSE 0 END AS loss_percentage`,
		).
		From("process p").
		Join("lots l ON l.id = p.lot_id").
		Join("jardi_output j ON j.process_id = p.id").
		Where(periodCond("p.start_date", period)).
		OrderBy("p.start_date DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build process yields: %w", err)
	}

	var items []*reports.ProcessYield
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("process yields: %w", err)
	}

	return items, nil
}
