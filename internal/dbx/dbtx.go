// Package dbx holds the tiny query-surface abstraction shared by the
// Notes-store readers: DBTX is the subset of database/sql they need, and is
// satisfied by both *sql.DB and *sql.Tx.
//
// The Notes store is only ever opened read-only, so no transaction helper
// lives here.
package dbx

import (
	"context"
	"database/sql"
)

// DBTX is the read-side subset of database/sql used by the store readers.
type DBTX interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
