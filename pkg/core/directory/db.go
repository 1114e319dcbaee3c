// Package directory persists the company identifier directory and serves
// name search and code lookups. The table is rebuilt wholesale from a
// corpCodes.json snapshot, written only at startup or bulk reload, and
// read-only afterwards, so concurrent request reads need no locking.
package directory

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool creates the database connection pool from a connection URL.
func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	if dbURL == "" {
		return nil, fmt.Errorf("database URL not set")
	}
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS companies (
	corp_code   TEXT PRIMARY KEY,
	corp_name   TEXT NOT NULL,
	stock_code  TEXT NOT NULL DEFAULT '',
	modify_date TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_corp_name ON companies (corp_name);
CREATE INDEX IF NOT EXISTS idx_stock_code ON companies (stock_code);
`

// InitSchema creates the companies table and its search indexes.
func InitSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to init companies schema: %w", err)
	}
	return nil
}
