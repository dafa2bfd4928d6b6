package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/claimdesk/claimdesk/internal/domain"
)

// PostgresAuditRepository implements ports.AuditRepository. The table is
// INSERT-only; nothing in this repository (or anywhere else in the
// application) updates or deletes rows.
type PostgresAuditRepository struct {
	db dbtx
}

func NewPostgresAuditRepository(db *sql.DB) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

func (r *PostgresAuditRepository) Append(ctx context.Context, entry *domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO audit_trail (id, entity, entity_id, action, performed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.Entity,
		entry.EntityID,
		entry.Action,
		entry.PerformedBy,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append audit entry: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, entity, entity_id, action, performed_by, created_at
		FROM audit_trail
		ORDER BY created_at DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit trail: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

func (r *PostgresAuditRepository) ListByEntity(ctx context.Context, entity string, entityID int64) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, entity, entity_id, action, performed_by, created_at
		FROM audit_trail
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, entity, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit trail: %w", err)
	}
	defer rows.Close()
	return scanAuditEntries(rows)
}

func scanAuditEntries(rows *sql.Rows) ([]*domain.AuditEntry, error) {
	var entries []*domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		var performedBy sql.NullString
		if err := rows.Scan(&e.ID, &e.Entity, &e.EntityID, &e.Action, &performedBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		if performedBy.Valid {
			e.PerformedBy = &performedBy.String
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate audit entries: %w", err)
	}
	return entries, nil
}
