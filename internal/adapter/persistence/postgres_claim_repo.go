package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/claimdesk/claimdesk/internal/domain"
)

const claimColumns = `id, claim_ref, employee_id, title, description, amount_claimed_cents,
	amount_approved_cents, status, receipt_path, processed_at, processed_by, created_at`

// PostgresClaimRepository implements ports.ClaimRepository over database/sql.
type PostgresClaimRepository struct {
	db dbtx
}

func NewPostgresClaimRepository(db *sql.DB) *PostgresClaimRepository {
	return &PostgresClaimRepository{db: db}
}

func (r *PostgresClaimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	query := `
		INSERT INTO claims (claim_ref, employee_id, title, description, amount_claimed_cents,
			amount_approved_cents, status, receipt_path, processed_at, processed_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.db.QueryRowContext(ctx, query,
		claim.ClaimRef,
		claim.EmployeeID,
		claim.Title,
		claim.Description,
		claim.AmountClaimedCents,
		claim.AmountApprovedCents,
		string(claim.Status),
		claim.ReceiptPath,
		claim.ProcessedAt,
		claim.ProcessedBy,
		claim.CreatedAt,
	).Scan(&claim.ID)
	if err != nil {
		return fmt.Errorf("failed to create claim: %w", err)
	}
	return nil
}

func (r *PostgresClaimRepository) FindByID(ctx context.Context, id int64) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// FindByIDForUpdate takes a row lock so a concurrent process decision on the
// same claim blocks until this transaction finishes.
func (r *PostgresClaimRepository) FindByIDForUpdate(ctx context.Context, id int64) (*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresClaimRepository) Update(ctx context.Context, claim *domain.Claim) error {
	query := `
		UPDATE claims
		SET title = $2, description = $3, amount_claimed_cents = $4, amount_approved_cents = $5,
			status = $6, receipt_path = $7, processed_at = $8, processed_by = $9
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		claim.ID,
		claim.Title,
		claim.Description,
		claim.AmountClaimedCents,
		claim.AmountApprovedCents,
		string(claim.Status),
		claim.ReceiptPath,
		claim.ProcessedAt,
		claim.ProcessedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update claim: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("claim %d not found", claim.ID)
	}
	return nil
}

func (r *PostgresClaimRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM claims WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete claim: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("claim %d not found", id)
	}
	return nil
}

func (r *PostgresClaimRepository) ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE employee_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query claims: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *PostgresClaimRepository) ListPending(ctx context.Context) ([]*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE status = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, string(domain.ClaimStatusPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query pending claims: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *PostgresClaimRepository) RecentByEmployee(ctx context.Context, employeeID string, limit int) ([]*domain.Claim, error) {
	query := `SELECT ` + claimColumns + ` FROM claims WHERE employee_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, employeeID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent claims: %w", err)
	}
	defer rows.Close()
	return r.scanAll(rows)
}

func (r *PostgresClaimRepository) CountByEmployee(ctx context.Context, employeeID string, status *domain.ClaimStatus) (int, error) {
	var count int
	var err error
	if status == nil {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM claims WHERE employee_id = $1`, employeeID).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM claims WHERE employee_id = $1 AND status = $2`, employeeID, string(*status)).Scan(&count)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return count, nil
}

func (r *PostgresClaimRepository) CountByStatus(ctx context.Context, status domain.ClaimStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM claims WHERE status = $1`, string(status)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count claims: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *PostgresClaimRepository) scanOne(row rowScanner) (*domain.Claim, error) {
	claim, err := scanClaim(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan claim: %w", err)
	}
	return claim, nil
}

func (r *PostgresClaimRepository) scanAll(rows *sql.Rows) ([]*domain.Claim, error) {
	var claims []*domain.Claim
	for rows.Next() {
		claim, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claim: %w", err)
		}
		claims = append(claims, claim)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate claims: %w", err)
	}
	return claims, nil
}

func scanClaim(row rowScanner) (*domain.Claim, error) {
	var claim domain.Claim
	var amountApproved sql.NullInt64
	var receiptPath, processedBy sql.NullString
	var processedAt sql.NullTime

	err := row.Scan(
		&claim.ID,
		&claim.ClaimRef,
		&claim.EmployeeID,
		&claim.Title,
		&claim.Description,
		&claim.AmountClaimedCents,
		&amountApproved,
		&claim.Status,
		&receiptPath,
		&processedAt,
		&processedBy,
		&claim.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if amountApproved.Valid {
		claim.AmountApprovedCents = &amountApproved.Int64
	}
	if receiptPath.Valid {
		claim.ReceiptPath = &receiptPath.String
	}
	if processedAt.Valid {
		claim.ProcessedAt = &processedAt.Time
	}
	if processedBy.Valid {
		claim.ProcessedBy = &processedBy.String
	}
	return &claim, nil
}
