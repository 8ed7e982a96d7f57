// Package db declares access to the PostgreSQL database that keeps
// exported harmonization runs.
package db

import (
	"context"

	"github.com/gnames/gnharmony/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator owns the connection to the export database. Exporters borrow
// its pool for transactions and CopyFrom.
type Operator interface {
	// Connect opens a connection pool and checks that the server answers.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close releases the pool. It is safe to call without Connect.
	Close() error

	// Pool is nil until Connect succeeds.
	Pool() *pgxpool.Pool

	// TableExists reports if a table is present in the public schema.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// DeleteRun removes rows of one harmonization run from every table,
	// children first.
	DeleteRun(ctx context.Context, runID string) error
}
