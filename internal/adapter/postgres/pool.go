package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/users-conformance/internal/config"
	"github.com/heartmarshall/users-conformance/internal/domain"
)

// NewPool creates the run's PostgreSQL handle configured from DatabaseConfig.
// With the default MaxConns of 1 every component shares one connection and
// statements execute strictly in order. It pings the database for fail-fast
// validation; connection problems wrap domain.ErrStoreUnavailable.
//
// The caller owns the pool and must Close it exactly once.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w: %w", domain.ErrStoreUnavailable, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w: %w", domain.ErrStoreUnavailable, err)
	}

	return pool, nil
}
