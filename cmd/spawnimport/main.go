// Command spawnimport copies spawn points from a YAML file into PostgreSQL,
// so the simulation can run with spawn_source: database.
//
// Usage:
//
//	go run ./cmd/spawnimport                         # config/spawns.yaml
//	go run ./cmd/spawnimport path/to/spawns.yaml
//	go run ./cmd/spawnimport --replace spawns.yaml   # delete existing points first
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/db"
	"github.com/udisondev/horde/internal/spawn"
)

const ConfigPath = "config/horde.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:]); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	replace := false
	if len(args) > 0 && args[0] == "--replace" {
		replace = true
		args = args[1:]
	}

	cfgPath := ConfigPath
	if p := os.Getenv("HORDE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	file := cfg.SpawnFile
	if len(args) > 0 {
		file = args[0]
	}
	points, err := spawn.NewFileRepository(file).LoadAll(ctx)
	if err != nil {
		return err
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer database.Close()

	if _, err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	ids, err := database.SpawnPoints().Import(ctx, points, replace)
	if err != nil {
		return fmt.Errorf("importing %s: %w", file, err)
	}
	for i, id := range ids {
		slog.Info("spawn point imported", "file_id", points[i].ID, "id", id, "origin", points[i].Origin)
	}

	slog.Info("import complete", "file", file, "count", len(points))
	return nil
}
