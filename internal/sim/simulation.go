package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/combat"
	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/geo"
	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/nav"
	"github.com/udisondev/horde/internal/spawn"
	"github.com/udisondev/horde/internal/world"
)

const (
	// defaultLevelSize is the edge, in cells, of the open level used when no rows are configured.
	defaultLevelSize = 128
	// playerMaxHealth is the health of the simulated player.
	playerMaxHealth = 100
	// commandCapacity bounds commands staged between two steps.
	commandCapacity = 256
)

// Simulation is the root of a level: it owns the world, the agent registry,
// the spawner and the player, and advances them in a fixed order.
// Step, FireWeapon and Shutdown must be called from one goroutine (the one
// running Run); Enqueue and Latest are safe from any goroutine.
type Simulation struct {
	cfg config.Simulation

	grid    *geo.Grid
	mesh    *nav.Mesh
	world   *world.Table
	agents  *ai.Manager
	spawner *spawn.Manager
	hooks   *eventHooks
	rng     *rand.Rand

	player  *world.Actor
	playerH model.Handle

	navs map[model.Handle]*nav.Agent

	commands *commandBuffer
	tick     uint64
	elapsed  float64
	latest   atomic.Pointer[Snapshot]
}

// New builds a level from cfg. Spawn points are added separately with LoadSpawnPoints.
func New(cfg config.Simulation) (*Simulation, error) {
	grid, err := buildGrid(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("building level: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}

	s := &Simulation{
		cfg:      cfg,
		grid:     grid,
		mesh:     nav.NewMesh(grid),
		world:    world.NewTable(),
		agents:   ai.NewManager(cfg.Alert),
		hooks:    &eventHooks{},
		rng:      rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		navs:     make(map[model.Handle]*nav.Agent),
		commands: newCommandBuffer(commandCapacity),
	}

	tags := []string{cfg.Level.PlayerTag}
	if cfg.Agent.HostileTag != "" && cfg.Agent.HostileTag != cfg.Level.PlayerTag {
		tags = append(tags, cfg.Agent.HostileTag)
	}
	s.player = world.NewActor(cfg.Level.PlayerStart, playerMaxHealth, tags...)
	s.playerH = s.world.Insert(s.player)

	s.spawner = spawn.NewManager(cfg.Population, spawn.Deps{
		World:     s.world,
		Agents:    s.agents,
		Factory:   s,
		Surface:   s.mesh,
		Rand:      s.rng,
		PlayerTag: cfg.Level.PlayerTag,
	})

	w, d := grid.Size()
	slog.Info("level built",
		"width", w,
		"depth", d,
		"cell_size", grid.CellSize(),
		"player", cfg.Level.PlayerStart,
		"seed", seed)

	s.publish()
	return s, nil
}

func buildGrid(lvl config.Level) (*geo.Grid, error) {
	if len(lvl.Rows) > 0 {
		return geo.ParseGrid(lvl.Rows, lvl.CellSize, lvl.Origin)
	}
	cs := lvl.CellSize
	if cs <= 0 {
		cs = 1
	}
	half := float64(defaultLevelSize) * cs / 2
	origin := model.V(lvl.PlayerStart.X-half, 0, lvl.PlayerStart.Z-half)
	return geo.NewGrid(defaultLevelSize, defaultLevelSize, cs, origin), nil
}

// LoadSpawnPoints adds every spawn point from repo.
func (s *Simulation) LoadSpawnPoints(ctx context.Context, repo spawn.SpawnPointRepository) error {
	return s.spawner.LoadPoints(ctx, repo)
}

// Create implements spawn.ZombieFactory. It wires a navigator, the state
// machine and a health model for one agent.
func (s *Simulation) Create(h model.Handle, class model.Classification, pos model.Vec3) (*ai.Zombie, error) {
	if _, ok := s.navs[h]; ok {
		return nil, fmt.Errorf("navigator for %s: %w", h, ai.ErrAlreadyRegistered)
	}

	yaw := s.rng.Float64() * 2 * math.Pi
	agent := nav.NewAgent(s.mesh, pos, model.V(math.Cos(yaw), 0, math.Sin(yaw)))

	z := ai.NewZombie(h, class, s.cfg.Speeds(class), s.cfg.Agent, ai.ZombieDeps{
		Nav:         agent,
		World:       s.world,
		Obstruction: s.grid,
		Hooks:       s.hooks,
		Rand:        s.rng,
	})

	a := s.cfg.Agent
	mult := combat.Multipliers{
		Head: a.HeadshotMultiplier,
		Body: a.BodyshotMultiplier,
		Limb: a.LimbshotMultiplier,
	}
	z.AttachHealth(combat.NewHealth(a.MaxHealth, mult, HeadCollider(h), z))

	s.navs[h] = agent
	return z, nil
}

// Release implements spawn.ZombieFactory.
func (s *Simulation) Release(z *ai.Zombie) {
	delete(s.navs, z.Handle())
}

// HeadCollider returns the head collider ID of the agent at h.
func HeadCollider(h model.Handle) combat.ColliderID {
	return combat.ColliderID(h.Index)<<1 | 1
}

// Enqueue stages cmd for the next step.
func (s *Simulation) Enqueue(cmd Command) error {
	if !s.commands.Push(cmd) {
		return ErrQueueFull
	}
	return nil
}

// Step advances the level by dt seconds: queued commands, movement,
// population control, then agent behavior.
func (s *Simulation) Step(dt float64) {
	for _, cmd := range s.commands.Drain() {
		s.apply(cmd)
	}
	for _, a := range s.navs {
		a.Advance(dt)
	}
	s.spawner.Tick(dt)
	s.agents.TickAll(dt)

	s.tick++
	s.elapsed += dt
	s.publish()
}

// Run steps the simulation at the configured tick interval until ctx is done.
func (s *Simulation) Run(ctx context.Context) error {
	interval := s.cfg.TickInterval
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()
	slog.Info("simulation started", "interval", interval, "spawn_points", s.spawner.PointCount())

	for {
		select {
		case <-ctx.Done():
			slog.Info("simulation stopping", "tick", s.tick, "live", s.agents.Count())
			return ctx.Err()
		case <-ticker.C:
			s.Step(dt)
		}
	}
}

// FireWeapon broadcasts the shot noise and then applies its damage, if any.
// Returns how many agents reacted to the noise.
func (s *Simulation) FireWeapon(shot Shot) int {
	reacted := s.agents.Broadcast(shot.Origin, shot.Silenced)

	if shot.Target.IsZero() || shot.Damage <= 0 {
		return reacted
	}
	e, ok := s.world.Resolve(shot.Target)
	if !ok {
		slog.Debug("shot target gone", "target", shot.Target)
		return reacted
	}
	switch t := e.(type) {
	case *ai.Zombie:
		if hp := t.Health(); hp != nil {
			left, dead := hp.ApplyDamage(shot.Damage, shot.HitPoint, shot.Collider, s.playerH)
			slog.Debug("shot hit agent", "agent", shot.Target, "health", left, "dead", dead)
		}
	case world.Damageable:
		t.TakeDamage(shot.Damage, s.playerH)
	}
	return reacted
}

// Shutdown despawns every agent and publishes a final snapshot.
func (s *Simulation) Shutdown() {
	s.spawner.DespawnAll()
	s.publish()
	slog.Info("simulation shut down", "ticks", s.tick, "spawn", s.spawner.Stats())
}

func (s *Simulation) apply(cmd Command) {
	switch cmd.Type {
	case CommandFire:
		s.FireWeapon(cmd.Shot)
	case CommandSpawn:
		if _, err := s.spawner.SpawnAt(cmd.Position, cmd.Class); err != nil {
			slog.Warn("manual spawn failed", "position", cmd.Position, "class", cmd.Class, "error", err)
		}
	case CommandMovePlayer:
		s.player.SetPosition(cmd.Position)
	default:
		slog.Warn("unknown command", "type", cmd.Type)
	}
}

func (s *Simulation) publish() {
	snap := &Snapshot{
		Tick: s.tick,
		Time: s.elapsed,
		Live: s.agents.Count(),
		Player: PlayerStatus{
			ID:       s.playerH.String(),
			Position: s.player.Position(),
			Health:   s.player.Health(),
			Dead:     s.player.IsDead(),
		},
		Agents: s.agents.Snapshot(),
		AI:     s.agents.Stats(),
		Spawn:  s.spawner.Stats(),
		Events: s.hooks.snapshot(),
	}
	s.latest.Store(snap)
}

// Latest returns the most recently published snapshot.
func (s *Simulation) Latest() *Snapshot {
	return s.latest.Load()
}

// Player returns the player actor.
func (s *Simulation) Player() *world.Actor { return s.player }

// PlayerHandle returns the player's entity handle.
func (s *Simulation) PlayerHandle() model.Handle { return s.playerH }

// Agents returns the agent registry.
func (s *Simulation) Agents() *ai.Manager { return s.agents }

// Spawner returns the population controller.
func (s *Simulation) Spawner() *spawn.Manager { return s.spawner }

// World returns the entity table.
func (s *Simulation) World() *world.Table { return s.world }

// Mesh returns the navigation surface.
func (s *Simulation) Mesh() *nav.Mesh { return s.mesh }
