package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/db"
	"github.com/udisondev/horde/internal/hud"
	"github.com/udisondev/horde/internal/sim"
	"github.com/udisondev/horde/internal/spawn"
)

const ConfigPath = "config/horde.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// Load config FIRST to determine log level
	cfgPath := ConfigPath
	if p := os.Getenv("HORDE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadSimulation(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := parseLogLevel(cfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})))

	// Enable AI debug logging if log level is debug
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("horde simulation starting",
		"config", cfgPath,
		"log_level", cfg.LogLevel,
		"tick_interval", cfg.TickInterval,
		"max_agents", cfg.Population.MaxAgents)

	simulation, err := sim.New(cfg)
	if err != nil {
		return fmt.Errorf("creating simulation: %w", err)
	}

	repo, closeRepo, err := openSpawnSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeRepo()

	if err := simulation.LoadSpawnPoints(ctx, repo); err != nil {
		return fmt.Errorf("loading spawn points: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := simulation.Run(gctx)
		simulation.Shutdown()
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.HUD.Enabled {
		server := hud.NewServer(cfg.HUD, simulation)
		g.Go(func() error {
			slog.Info("starting hud server", "address", cfg.HUD.Address)
			if err := server.Run(gctx); err != nil {
				return fmt.Errorf("hud server: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("simulation error: %w", err)
	}

	snap := simulation.Latest()
	slog.Info("horde simulation stopped",
		"ticks", snap.Tick,
		"spawned", snap.Spawn.Spawned,
		"despawned", snap.Spawn.Despawned,
		"broadcasts", snap.AI.Broadcasts,
		"faults", snap.AI.Faults)
	return nil
}

// openSpawnSource returns the configured spawn point repository and a cleanup func.
func openSpawnSource(ctx context.Context, cfg config.Simulation) (spawn.SpawnPointRepository, func(), error) {
	if cfg.SpawnSource != config.SpawnSourceDatabase {
		slog.Info("spawn points from file", "path", cfg.SpawnFile)
		return spawn.NewFileRepository(cfg.SpawnFile), func() {}, nil
	}

	database, err := db.New(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected", "max_conns", database.Pool().Config().MaxConns)

	if _, err := database.Migrate(ctx); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}

	return database.SpawnPoints(), database.Close, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
