package persistence

import (
	"context"
	"database/sql"

	"github.com/claimdesk/claimdesk/internal/ports"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx, so the repositories can run
// standalone or inside a unit of work.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// PostgresUnitOfWork runs claim and audit writes inside one transaction.
type PostgresUnitOfWork struct {
	db *sql.DB
}

func NewPostgresUnitOfWork(db *sql.DB) *PostgresUnitOfWork {
	return &PostgresUnitOfWork{db: db}
}

// Do begins a transaction, hands transaction-bound repositories to fn and
// commits on success. On error or panic the transaction is rolled back.
func (u *PostgresUnitOfWork) Do(ctx context.Context, fn func(repos ports.TxRepos) error) (err error) {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ports.TxRepos{
		Claims: &PostgresClaimRepository{db: tx},
		Audit:  &PostgresAuditRepository{db: tx},
	})
	return err
}
