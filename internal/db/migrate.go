package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/udisondev/horde/internal/db/migrations"
)

// goose keeps its dialect and FS in package globals.
var gooseOnce sync.Once
var gooseErr error

func setupGoose() error {
	gooseOnce.Do(func() {
		goose.SetBaseFS(migrations.FS)
		goose.SetLogger(goose.NopLogger())
		gooseErr = goose.SetDialect("postgres")
	})
	return gooseErr
}

// Migrate applies the embedded migrations through sqlDB and returns the
// resulting schema version.
func Migrate(ctx context.Context, sqlDB *sql.DB) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, fmt.Errorf("setting goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, sqlDB, "."); err != nil {
		return 0, fmt.Errorf("running migrations: %w", err)
	}
	version, err := goose.GetDBVersionContext(ctx, sqlDB)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

// Migrate brings the schema behind d up to date.
func (d *DB) Migrate(ctx context.Context) (int64, error) {
	sqlDB := stdlib.OpenDBFromPool(d.pool)
	defer sqlDB.Close()

	version, err := Migrate(ctx, sqlDB)
	if err != nil {
		return 0, err
	}
	slog.Info("database schema ready", "version", version)
	return version, nil
}
