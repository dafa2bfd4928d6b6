package ports

import (
	"context"

	"github.com/claimdesk/claimdesk/internal/domain"
)

// ClaimRepository is the persistence contract for claims.
type ClaimRepository interface {
	// Create inserts the claim and fills in the store-assigned ID.
	Create(ctx context.Context, claim *domain.Claim) error
	FindByID(ctx context.Context, id int64) (*domain.Claim, error)
	// FindByIDForUpdate locks the row for the remainder of the current
	// transaction. Only meaningful inside a unit of work.
	FindByIDForUpdate(ctx context.Context, id int64) (*domain.Claim, error)
	Update(ctx context.Context, claim *domain.Claim) error
	Delete(ctx context.Context, id int64) error

	ListByEmployee(ctx context.Context, employeeID string) ([]*domain.Claim, error)
	// ListPending returns pending claims oldest-first for the admin queue.
	ListPending(ctx context.Context) ([]*domain.Claim, error)
	RecentByEmployee(ctx context.Context, employeeID string, limit int) ([]*domain.Claim, error)
	CountByEmployee(ctx context.Context, employeeID string, status *domain.ClaimStatus) (int, error)
	CountByStatus(ctx context.Context, status domain.ClaimStatus) (int, error)
}

// AuditRepository is the persistence contract for audit entries.
// It is append-only: there are no update or delete methods.
type AuditRepository interface {
	Append(ctx context.Context, entry *domain.AuditEntry) error
	// Recent returns the newest entries, most recent first.
	Recent(ctx context.Context, limit int) ([]*domain.AuditEntry, error)
	ListByEntity(ctx context.Context, entity string, entityID int64) ([]*domain.AuditEntry, error)
}

// UserRepository is the persistence contract for accounts and roles.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]*domain.User, error)
	Count(ctx context.Context) (int, error)
	UpdateLastLogin(ctx context.Context, id string) error
	// EnsureRole inserts the role into the catalog if missing (idempotent).
	EnsureRole(ctx context.Context, name string) error
}

// TxRepos bundles the repositories bound to one open transaction.
type TxRepos struct {
	Claims ClaimRepository
	Audit  AuditRepository
}

// UnitOfWork runs fn inside a single database transaction. A claim mutation
// and its audit entry always travel together: if either write fails neither
// becomes visible.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(repos TxRepos) error) error
}
