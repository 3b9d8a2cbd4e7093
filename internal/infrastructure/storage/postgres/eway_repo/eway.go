// Package eway_repo provides the PostgreSQL implementation of the e-way
// bill repository. Large portal responses are stored zstd-compressed.
package eway_repo

import (
	"context"
	"fmt"

	"github.com/klauspost/compress/zstd"

	"leafbook/internal/core/apperror"
	"leafbook/internal/core/id"
	"leafbook/internal/domain/ewaybill"
	"leafbook/internal/infrastructure/storage/postgres"
)

const ewayTable = "eway_bills"

// CompressionAlgo specifies the compression algorithm used for raw
// responses.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

var _ ewaybill.Repository = (*EwayRepo)(nil)

// EwayRepo implements ewaybill.Repository.
type EwayRepo struct {
	txm               *postgres.TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int
}

// NewEwayRepo creates a new e-way bill repository.
func NewEwayRepo(txm *postgres.TxManager) (*EwayRepo, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &EwayRepo{
		txm:               txm,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024,
	}, nil
}

// Create inserts a bill record, compressing the raw response when it
// exceeds the threshold.
func (r *EwayRepo) Create(ctx context.Context, b *ewaybill.Bill) error {
	raw := b.RawResponse
	var compressed []byte
	algo := CompressionNone
	if len(raw) > r.compressThreshold {
		compressed = r.encoder.EncodeAll(raw, nil)
		raw = nil
		algo = CompressionZstd
	}

	sql := `
		INSERT INTO eway_bills (
			id, lot_id, bill_no, status, generated_at, valid_until,
			raw_response, raw_response_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.txm.GetQuerier(ctx).Exec(ctx, sql,
		b.ID, b.LotID, b.BillNo, b.Status, b.GeneratedAt, b.ValidUntil,
		raw, compressed, algo, b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert eway bill: %w", err)
	}

	return nil
}

// GetByID retrieves a bill with its raw response decompressed.
func (r *EwayRepo) GetByID(ctx context.Context, billID id.ID) (*ewaybill.Bill, error) {
	sql := selectSQL + ` WHERE id = $1`

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, billID)
	if err != nil {
		return nil, fmt.Errorf("query eway bill: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query eway bill: %w", err)
		}
		return nil, apperror.NewNotFound(ewayTable, billID.String())
	}

	b, err := r.scanBill(rows)
	if err != nil {
		return nil, err
	}

	return b, rows.Err()
}

// ListByLot returns all bill attempts for a lot, newest first.
func (r *EwayRepo) ListByLot(ctx context.Context, lotID id.ID) ([]*ewaybill.Bill, error) {
	sql := selectSQL + ` WHERE lot_id = $1 ORDER BY created_at DESC`

	rows, err := r.txm.GetQuerier(ctx).Query(ctx, sql, lotID)
	if err != nil {
		return nil, fmt.Errorf("query eway bills: %w", err)
	}
	defer rows.Close()

	var bills []*ewaybill.Bill
	for rows.Next() {
		b, err := r.scanBill(rows)
		if err != nil {
			return nil, err
		}
		bills = append(bills, b)
	}

	return bills, rows.Err()
}

const selectSQL = `
	SELECT id, lot_id, bill_no, status, generated_at, valid_until,
		raw_response, raw_response_compressed, compression_algo, created_at
	FROM eway_bills`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *EwayRepo) scanBill(row rowScanner) (*ewaybill.Bill, error) {
	b := &ewaybill.Bill{}
	var raw, compressed []byte
	var algo CompressionAlgo

	err := row.Scan(
		&b.ID, &b.LotID, &b.BillNo, &b.Status, &b.GeneratedAt, &b.ValidUntil,
		&raw, &compressed, &algo, &b.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scan eway bill: %w", err)
	}

	if algo == CompressionZstd && len(compressed) > 0 {
		decompressed, err := r.decoder.DecodeAll(compressed, nil)
		if err != nil {
			return nil, fmt.Errorf("decompress raw response: %w", err)
		}
		b.RawResponse = decompressed
	} else {
		b.RawResponse = raw
	}

	return b, nil
}
