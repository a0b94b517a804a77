// Package db holds the SQL queries for the item bounded context in the
// shape sqlc emits, so the repository can run them against *sql.DB or *sql.Tx.
package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// New binds the queries to db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries runs the item context's statements.
type Queries struct {
	db DBTX
}
