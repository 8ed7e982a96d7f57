// Package iodb implements PostgreSQL export of harmonized data using
// pgxpool. This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"

	"github.com/gnames/gnharmony/pkg/config"
	"github.com/gnames/gnharmony/pkg/db"
	"github.com/gnames/gnharmony/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool *pgxpool.Pool
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	poolConfig, err := pgxpool.ParseConfig(dsn(cfg))
	if err != nil {
		return ConnectionError(cfg, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 0
	poolConfig.MaxConnIdleTime = 0

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg, err)
	}

	p.pool = pool
	return nil
}

func dsn(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableCheckError(tableName, err)
	}

	return exists, nil
}

// DeleteRun removes rows of a run. Tables that do not exist are skipped.
// Rows that refer to the run are removed before the run itself.
func (p *pgxOperator) DeleteRun(ctx context.Context, runID string) error {
	if p.pool == nil {
		return NotConnectedError()
	}

	gens := schema.AllGenerators()
	for i := len(gens) - 1; i >= 0; i-- {
		table := gens[i].TableName()
		exists, err := p.TableExists(ctx, table)
		if err != nil {
			return err
		}
		if !exists {
			continue
		}
		col := "run_id"
		if table == (schema.Run{}).TableName() {
			col = "id"
		}
		q := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, col)
		if _, err = p.pool.Exec(ctx, q, runID); err != nil {
			return ExportError(table, err)
		}
	}
	return nil
}
