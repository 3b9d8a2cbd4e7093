package postgres

import (
	"context"
	"fmt"

	"leafbook/pkg/logger"
)

// Migrate applies the schema idempotently. It runs once at process start
// (and from cmd/migrate), replacing any per-request "already initialized"
// checks.
func Migrate(ctx context.Context, pool *Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d: %w", i+1, err)
		}
	}

	logger.Info(ctx, "schema migration applied", "statements", len(schemaStatements))
	return nil
}

// schemaStatements is the full relational schema. Statements are ordered by
// dependency; every one is safe to re-run.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS sys_sequences (
		sequence_type TEXT NOT NULL,
		year          INT  NOT NULL,
		current_val   BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (sequence_type, year)
	)`,

	`CREATE TABLE IF NOT EXISTS users (
		id            UUID PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL DEFAULT '',
		is_active     BOOLEAN NOT NULL DEFAULT TRUE,
		version       INT NOT NULL DEFAULT 1,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS farmers (
		id             UUID PRIMARY KEY,
		farmer_code    TEXT NOT NULL UNIQUE,
		name           TEXT NOT NULL,
		village        TEXT NOT NULL DEFAULT '',
		phone          TEXT,
		bank_account   TEXT,
		ifsc_code      TEXT,
		id_proof       TEXT,
		efficacy_score DECIMAL(4,2),
		efficacy_notes TEXT,
		is_active      BOOLEAN NOT NULL DEFAULT TRUE,
		version        INT NOT NULL DEFAULT 1,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS purchases (
		id               UUID PRIMARY KEY,
		farmer_id        UUID REFERENCES farmers(id) ON DELETE SET NULL,
		purchase_date    DATE NOT NULL,
		process_weight   DECIMAL(10,2) NOT NULL,
		packaging_weight DECIMAL(10,2) NOT NULL DEFAULT 0,
		packaging_type   TEXT NOT NULL CHECK (packaging_type IN ('BODH','BAG')),
		rate_per_kg      DECIMAL(10,2) NOT NULL,
		total_weight     DECIMAL(10,2) NOT NULL,
		total_amount     DECIMAL(12,2) NOT NULL,
		remarks          TEXT,
		version          INT NOT NULL DEFAULT 1,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_farmer ON purchases(farmer_id)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_date ON purchases(purchase_date)`,

	`CREATE TABLE IF NOT EXISTS lots (
		id                 UUID PRIMARY KEY,
		lot_code           TEXT NOT NULL UNIQUE,
		lot_date           DATE NOT NULL,
		total_input_weight DECIMAL(10,2) NOT NULL DEFAULT 0,
		remarks            TEXT,
		version            INT NOT NULL DEFAULT 1,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS lot_purchases (
		id          UUID PRIMARY KEY,
		lot_id      UUID NOT NULL REFERENCES lots(id) ON DELETE CASCADE,
		purchase_id UUID NOT NULL REFERENCES purchases(id) ON DELETE RESTRICT,
		used_weight DECIMAL(10,2) NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (lot_id, purchase_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_lot_purchases_purchase ON lot_purchases(purchase_id)`,

	`CREATE TABLE IF NOT EXISTS process_status (
		id         UUID PRIMARY KEY,
		code       TEXT NOT NULL UNIQUE,
		name       TEXT NOT NULL,
		sort_order INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS process (
		id               UUID PRIMARY KEY,
		process_code     TEXT NOT NULL UNIQUE,
		lot_id           UUID NOT NULL UNIQUE REFERENCES lots(id),
		status_id        UUID NOT NULL REFERENCES process_status(id),
		input_weight     DECIMAL(10,2) NOT NULL,
		kadi_mati_weight DECIMAL(10,2) NOT NULL DEFAULT 0,
		dhas_weight      DECIMAL(10,2) NOT NULL DEFAULT 0,
		start_date       DATE,
		end_date         DATE,
		remarks          TEXT,
		version          INT NOT NULL DEFAULT 1,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS process_status_history (
		id             UUID PRIMARY KEY,
		process_id     UUID NOT NULL REFERENCES process(id),
		from_status_id UUID REFERENCES process_status(id),
		to_status_id   UUID NOT NULL REFERENCES process_status(id),
		changed_by     TEXT NOT NULL,
		changed_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
		notes          TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_status_history_process ON process_status_history(process_id)`,

	`CREATE TABLE IF NOT EXISTS jardi_output (
		id                 UUID PRIMARY KEY,
		process_id         UUID NOT NULL UNIQUE REFERENCES process(id),
		jardi_weight       DECIMAL(10,2) NOT NULL,
		grade              TEXT,
		packaging_type     TEXT,
		num_packages       INT,
		avg_package_weight DECIMAL(10,2),
		total_packed_weight DECIMAL(10,2) NOT NULL DEFAULT 0,
		remarks            TEXT,
		version            INT NOT NULL DEFAULT 1,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at         TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS payments (
		id           UUID PRIMARY KEY,
		purchase_id  UUID NOT NULL REFERENCES purchases(id),
		payment_date DATE NOT NULL,
		amount_paid  DECIMAL(12,2) NOT NULL,
		mode         TEXT NOT NULL,
		reference_no TEXT,
		remarks      TEXT,
		version      INT NOT NULL DEFAULT 1,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_payments_purchase ON payments(purchase_id)`,

	`CREATE TABLE IF NOT EXISTS eway_bills (
		id                      UUID PRIMARY KEY,
		lot_id                  UUID NOT NULL REFERENCES lots(id),
		bill_no                 TEXT,
		status                  TEXT NOT NULL,
		generated_at            TIMESTAMPTZ,
		valid_until             TIMESTAMPTZ,
		raw_response            JSONB,
		raw_response_compressed BYTEA,
		compression_algo        TEXT NOT NULL DEFAULT 'none',
		created_at              TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_eway_bills_lot ON eway_bills(lot_id)`,

	// Fixed status vocabulary, seeded once. Codes are stable; names are display only.
	`INSERT INTO process_status (id, code, name, sort_order) VALUES
		(gen_random_uuid(), 'PENDING',     'Pending',     10),
		(gen_random_uuid(), 'IN_PROGRESS', 'In Progress', 20),
		(gen_random_uuid(), 'COMPLETED',   'Completed',   30),
		(gen_random_uuid(), 'ON_HOLD',     'On Hold',     40),
		(gen_random_uuid(), 'CANCELLED',   'Cancelled',   50)
	ON CONFLICT (code) DO NOTHING`,
}
