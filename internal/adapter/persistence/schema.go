package persistence

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements applied by cmd/migrate. Kept as idempotent DDL so the
// migrator can run on every deploy.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		full_name TEXT NOT NULL DEFAULT '',
		employee_no TEXT NOT NULL DEFAULT '',
		bank_account_no TEXT,
		roles TEXT[] NOT NULL DEFAULT '{}',
		last_login_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS roles (
		name TEXT PRIMARY KEY
	)`,

	`CREATE TABLE IF NOT EXISTS claims (
		id BIGSERIAL PRIMARY KEY,
		claim_ref CHAR(32) NOT NULL UNIQUE,
		employee_id UUID NOT NULL REFERENCES users(id),
		title VARCHAR(100) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		amount_claimed_cents BIGINT NOT NULL CHECK (amount_claimed_cents > 0),
		amount_approved_cents BIGINT CHECK (amount_approved_cents > 0),
		status TEXT NOT NULL DEFAULT 'PENDING',
		receipt_path TEXT,
		processed_at TIMESTAMPTZ,
		processed_by UUID REFERENCES users(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_claims_employee ON claims (employee_id, created_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_claims_status ON claims (status, created_at)`,

	`CREATE TABLE IF NOT EXISTS audit_trail (
		id UUID PRIMARY KEY,
		entity TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		action TEXT NOT NULL,
		performed_by UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_entity ON audit_trail (entity, entity_id, created_at DESC)`,

	`CREATE INDEX IF NOT EXISTS idx_audit_created ON audit_trail (created_at DESC)`,
}

// Migrate applies the schema statements in order.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
