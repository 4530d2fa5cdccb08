package repository

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS employees (
    employee_id          TEXT PRIMARY KEY,
    full_name            TEXT,
    nationality          TEXT,
    date_of_birth        TEXT,
    passport_number      TEXT UNIQUE,
    job_title            TEXT,
    base_salary          NUMERIC,
    total_salary         NUMERIC,
    contract_start_date  TEXT,
    contract_expiry_date TEXT,
    insurance_status     TEXT,
    mohre_transaction_no TEXT UNIQUE,
    source_file          TEXT,
    confidence_score     NUMERIC,
    field_scores         JSONB,
    source_doc_type      TEXT,
    ingested_at          TEXT
);

CREATE SEQUENCE IF NOT EXISTS eid_seq START 1;
`

// migrations run once on startup; each is idempotent so they are safe
// against deployments created before the column existed.
var migrations = []string{
	"ALTER TABLE employees ADD COLUMN IF NOT EXISTS field_scores JSONB",
	"ALTER TABLE employees ADD COLUMN IF NOT EXISTS source_doc_type TEXT",
}

// InitSchema creates the employees table and ID sequence if absent, then
// applies the column migrations.
func InitSchema(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if _, err := pool.Exec(ctx, schemaDDL); err != nil {
		logger.Error("schema create failed", "error", err)
		return err
	}
	for _, m := range migrations {
		if _, err := pool.Exec(ctx, m); err != nil {
			logger.Error("schema migration failed", "migration", m, "error", err)
			return err
		}
	}
	logger.Info("database schema ready")
	return nil
}
