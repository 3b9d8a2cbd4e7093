package document_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/process"
	"leafbook/internal/infrastructure/storage/postgres"
)

const (
	processTable       = "process"
	processStatusTable = "process_status"
	statusHistoryTable = "process_status_history"
)

// Columns written to the process table. status_code is joined in on
// reads and never stored.
var processWriteCols = []string{
	"id", "version", "created_at", "updated_at",
	"process_code", "lot_id", "status_id", "start_date", "end_date",
	"input_weight", "kadi_mati_weight", "dhas_weight", "remarks",
}

const processReadCols = `p.id, p.version, p.created_at, p.updated_at,
	p.process_code, p.lot_id, p.status_id, p.start_date, p.end_date,
	p.input_weight, p.kadi_mati_weight, p.dhas_weight, p.remarks,
	s.code AS status_code`

var _ process.Repository = (*ProcessRepo)(nil)

// ProcessRepo implements process.Repository.
// Reads join process_status so callers always see the status code.
type ProcessRepo struct {
	txm     *postgres.TxManager
	builder squirrel.StatementBuilderType
}

// NewProcessRepo creates a new process repository.
func NewProcessRepo(txm *postgres.TxManager) *ProcessRepo {
	return &ProcessRepo{
		txm:     txm,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProcessRepo) querier(ctx context.Context) postgres.Querier {
	return r.txm.GetQuerier(ctx)
}

// Create inserts a new process. A second process for the same lot fails
// with a duplicate error (lot_id is unique).
func (r *ProcessRepo) Create(ctx context.Context, p *process.Process) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(processWriteCols))
	for _, col := range processWriteCols {
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	q := r.builder.
		Insert(processTable).
		SetMap(filteredData)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	_, err = r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return apperror.NewDuplicate("process", "lot_id", p.LotID.String()).WithCause(err)
			case "23503":
				return apperror.NewConflict("lot or status does not exist").WithCause(err)
			}
		}
		return fmt.Errorf("insert process: %w", err)
	}

	return nil
}

// Update modifies a process with optimistic locking.
func (r *ProcessRepo) Update(ctx context.Context, p *process.Process) error {
	data := postgres.StructToMap(p)

	filteredData := make(map[string]any, len(processWriteCols))
	for _, col := range processWriteCols {
		if col == "id" || col == "created_at" || col == "version" {
			continue
		}
		if col == "process_code" || col == "lot_id" {
			continue // immutable once started
		}
		if val, ok := data[col]; ok {
			filteredData[col] = val
		}
	}

	// Services call Touch() before Update, so the entity carries the next
	// version; the row must still hold the previous one.
	q := r.builder.
		Update(processTable).
		SetMap(filteredData).
		Set("version", squirrel.Expr("version + 1")).
		Where(squirrel.Eq{"id": p.ID}).
		Where(squirrel.Eq{"version": p.Version - 1})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := r.querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update process: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperror.NewConcurrentModification(processTable, p.ID)
	}

	return nil
}

func (r *ProcessRepo) baseSelect() squirrel.SelectBuilder {
	return r.builder.
		Select(processReadCols).
		From(processTable + " p").
		Join(processStatusTable + " s ON s.id = p.status_id")
}

// GetByID retrieves a process with its status code.
func (r *ProcessRepo) GetByID(ctx context.Context, processID id.ID) (*process.Process, error) {
	return r.getOne(ctx, squirrel.Eq{"p.id": processID}, "", processID.String())
}

// GetForUpdate retrieves a process with a row lock on the process row.
// Must be called inside a transaction.
func (r *ProcessRepo) GetForUpdate(ctx context.Context, processID id.ID) (*process.Process, error) {
	return r.getOne(ctx, squirrel.Eq{"p.id": processID}, "FOR UPDATE OF p", processID.String())
}

// GetByLotID retrieves the process of a lot.
func (r *ProcessRepo) GetByLotID(ctx context.Context, lotID id.ID) (*process.Process, error) {
	return r.getOne(ctx, squirrel.Eq{"p.lot_id": lotID}, "", lotID.String())
}

func (r *ProcessRepo) getOne(ctx context.Context, cond squirrel.Eq, suffix, key string) (*process.Process, error) {
	p := &process.Process{}

	q := r.baseSelect().Where(cond)
	if suffix != "" {
		q = q.Suffix(suffix)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(processTable, key)
		}
		return nil, fmt.Errorf("get process: %w", err)
	}

	return p, nil
}

// List retrieves processes with filtering.
func (r *ProcessRepo) List(ctx context.Context, filter process.ListFilter) (domain.ListResult[*process.Process], error) {
	result := domain.ListResult[*process.Process]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := r.baseSelect()

	if filter.Search != "" {
		q = q.Where(squirrel.ILike{"p.process_code": "%" + filter.Search + "%"})
	}
	if filter.StatusCode != "" {
		q = q.Where(squirrel.Eq{"s.code": filter.StatusCode})
	}
	if filter.LotID != nil {
		q = q.Where(squirrel.Eq{"p.lot_id": *filter.LotID})
	}
	if filter.FromDate != nil {
		q = q.Where(squirrel.GtOrEq{"p.start_date": *filter.FromDate})
	}
	if filter.ToDate != nil {
		q = q.Where(squirrel.LtOrEq{"p.start_date": *filter.ToDate})
	}

	countQ := r.builder.
		Select("COUNT(*)").
		FromSelect(q, "sub")

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}

	querier := r.querier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count: %w", err)
	}

	q = q.OrderBy("p.start_date DESC, p.created_at DESC")

	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list processes: %w", err)
	}

	return result, nil
}

// ListStatuses returns the status dictionary in display order.
func (r *ProcessRepo) ListStatuses(ctx context.Context) ([]*process.Status, error) {
	q := r.builder.
		Select("id", "code", "name", "sort_order", "created_at").
		From(processStatusTable).
		OrderBy("sort_order, code")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*process.Status
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}

	return items, nil
}

// GetStatusByID retrieves a status row.
func (r *ProcessRepo) GetStatusByID(ctx context.Context, statusID id.ID) (*process.Status, error) {
	return r.getStatus(ctx, squirrel.Eq{"id": statusID}, statusID.String())
}

// GetStatusByCode retrieves a status row by code.
func (r *ProcessRepo) GetStatusByCode(ctx context.Context, code string) (*process.Status, error) {
	return r.getStatus(ctx, squirrel.Eq{"code": code}, code)
}

func (r *ProcessRepo) getStatus(ctx context.Context, cond squirrel.Eq, key string) (*process.Status, error) {
	s := &process.Status{}

	q := r.builder.
		Select("id", "code", "name", "sort_order", "created_at").
		From(processStatusTable).
		Where(cond).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), s, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(processStatusTable, key)
		}
		return nil, fmt.Errorf("get status: %w", err)
	}

	return s, nil
}

// AppendHistory inserts a status change row. History is append-only;
// there is no update or delete.
func (r *ProcessRepo) AppendHistory(ctx context.Context, h *process.StatusHistory) error {
	q := r.builder.
		Insert(statusHistoryTable).
		Columns("id", "process_id", "from_status_id", "to_status_id", "changed_by", "changed_at", "notes").
		Values(h.ID, h.ProcessID, h.FromStatusID, h.ToStatusID, h.ChangedBy, h.ChangedAt, h.Notes)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.querier(ctx).Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}

	return nil
}

// ListHistory returns a process's status changes, oldest first, with
// status codes joined in.
func (r *ProcessRepo) ListHistory(ctx context.Context, processID id.ID) ([]*process.StatusHistory, error) {
	q := r.builder.
		Select(`h.id, h.process_id, h.from_status_id, h.to_status_id,
			h.changed_by, h.changed_at, h.notes,
			fs.code AS from_status_code, ts.code AS to_status_code`).
		From(statusHistoryTable + " h").
		Join(processStatusTable + " ts ON ts.id = h.to_status_id").
		LeftJoin(processStatusTable + " fs ON fs.id = h.from_status_id").
		Where(squirrel.Eq{"h.process_id": processID}).
		OrderBy("h.changed_at, h.id")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []*process.StatusHistory
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}

	return items, nil
}
