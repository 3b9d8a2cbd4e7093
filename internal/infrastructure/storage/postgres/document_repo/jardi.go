package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain"
	"leafbook/internal/domain/documents/jardi"
	"leafbook/internal/infrastructure/storage/postgres"
)

const jardiTable = "jardi_output"

var jardiCols = postgres.ExtractDBColumns[jardi.Output]()

var _ jardi.Repository = (*JardiRepo)(nil)

// JardiRepo implements jardi.Repository.
type JardiRepo struct {
	*BaseDocumentRepo[*jardi.Output]
}

// NewJardiRepo creates a new jardi output repository.
func NewJardiRepo(txm *postgres.TxManager) *JardiRepo {
	return &JardiRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txm,
			jardiTable,
			jardiCols,
			"created_at",
			func() *jardi.Output { return &jardi.Output{} },
		),
	}
}

// GetByProcessID retrieves the output record of a process.
func (r *JardiRepo) GetByProcessID(ctx context.Context, processID id.ID) (*jardi.Output, error) {
	o := &jardi.Output{}

	q := r.Builder().
		Select(jardiCols...).
		From(jardiTable).
		Where(squirrel.Eq{"process_id": processID}).
		Limit(1)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Get(ctx, r.querier(ctx), o, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(jardiTable, processID.String())
		}
		return nil, fmt.Errorf("get output by process: %w", err)
	}

	return o, nil
}

// List retrieves outputs with filtering.
func (r *JardiRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*jardi.Output], error) {
	return r.BaseDocumentRepo.List(ctx, filter, nil)
}
