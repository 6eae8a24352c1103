package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/coin-ticker/internal/config"
)

// Connect creates a connection pool and verifies it with a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(BuildConnString(cfg))
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS price_samples (
	id           UUID PRIMARY KEY,
	fetched_at   BIGINT           NOT NULL,
	feed_updated TEXT             NOT NULL,
	currency     TEXT             NOT NULL,
	rate         TEXT             NOT NULL,
	price        DOUBLE PRECISION NOT NULL,
	display      TEXT             NOT NULL,
	revision     BIGINT           NOT NULL,
	UNIQUE (currency, feed_updated)
);
CREATE INDEX IF NOT EXISTS price_samples_fetched_at_idx ON price_samples (fetched_at);
`

// EnsureSchema creates the price_samples table if it does not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
