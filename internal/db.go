package internal

import (
	"context"
	"database/sql"
)

// querier is satisfied by *sql.DB, *sql.Conn and *sql.Tx, so store code can
// run the same statements inside or outside a transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// runInTx starts a transaction and runs fn; nil commits, an error rolls
// back. Compound writes (asset + spec record, assignment + status flip) go
// through here so they are all-or-nothing.
func runInTx(ctx context.Context, db *sql.DB, fn func(q querier) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
