package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts over *sql.DB and *sql.Tx so store implementations can run
// either directly against the pool or inside a caller-managed transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// RunInTx begins a transaction on db, runs fn, and commits. On any error
// from fn the transaction is rolled back and the original error returned.
func RunInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errorsJoin(err, rbErr)
		}
		return err
	}

	return tx.Commit()
}

// errorsJoin keeps the primary error matchable while retaining the
// rollback failure for the logs.
func errorsJoin(primary, secondary error) error {
	return &txError{primary: primary, secondary: secondary}
}

type txError struct {
	primary   error
	secondary error
}

func (e *txError) Error() string {
	return e.primary.Error() + " (rollback: " + e.secondary.Error() + ")"
}

func (e *txError) Unwrap() error { return e.primary }
