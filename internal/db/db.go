package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/horde/internal/config"
)

const applicationName = "horde"

// DB owns the pgx pool behind the spawn point store.
type DB struct {
	pool *pgxpool.Pool
}

// New opens a pool sized by cfg and pings the server before returning.
func New(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.ConnectTimeout > 0 {
		poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout
	}
	if _, ok := poolCfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database %s/%s: %w", poolCfg.ConnConfig.Host, poolCfg.ConnConfig.Database, err)
	}
	return &DB{pool: pool}, nil
}

// SpawnPoints returns a repository backed by this pool.
func (d *DB) SpawnPoints() *SpawnPointRepository {
	return NewSpawnPointRepository(d.pool)
}

func (d *DB) Close() {
	d.pool.Close()
}

// Pool exposes the pool to tests and migrations.
func (d *DB) Pool() *pgxpool.Pool {
	return d.pool
}
