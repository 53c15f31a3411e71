package spawn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"

	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/world"
)

// ErrPopulationCap is returned when the live-agent cap is reached. It is a
// throttling outcome, not a failure.
var ErrPopulationCap = errors.New("population cap reached")

// SpawnPointRepository loads level placement data.
type SpawnPointRepository interface {
	LoadAll(ctx context.Context) ([]model.SpawnPoint, error)
}

// ZombieFactory builds the agent for a reserved handle. Release is called once
// the agent has left every registry so the factory can drop what it created.
type ZombieFactory interface {
	Create(h model.Handle, class model.Classification, pos model.Vec3) (*ai.Zombie, error)
	Release(z *ai.Zombie)
}

// Surface answers navigation-surface queries for placement.
type Surface interface {
	SampleValidPosition(near model.Vec3, maxRadius float64) (model.Vec3, bool)
}

// Rand is the randomness source for batch sizes and placement.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Deps bundles the collaborators the Manager is wired to.
type Deps struct {
	World     *world.Table
	Agents    *ai.Manager
	Factory   ZombieFactory
	Surface   Surface
	Rand      Rand
	PlayerTag string
}

// Stats are cumulative spawn counters.
type Stats struct {
	Spawned   int64 `json:"spawned"`
	Despawned int64 `json:"despawned"`
	Throttled int64 `json:"throttled"`
}

// Manager owns every spawn point and the agents they create. Agents enter
// the entity table and the AI registry here and leave them here, exactly once.
// Not safe for concurrent use: driven from the simulation goroutine.
type Manager struct {
	cfg       config.Population
	world     *world.Table
	agents    *ai.Manager
	factory   ZombieFactory
	surface   Surface
	rng       Rand
	playerTag string

	points []*Point
	owners map[model.Handle]*Point
	live   map[model.Handle]*ai.Zombie

	initialDelay float64

	spawned   atomic.Int64
	despawned atomic.Int64
	throttled atomic.Int64
}

// NewManager creates a spawn manager with no points.
func NewManager(cfg config.Population, deps Deps) *Manager {
	rng := deps.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Manager{
		cfg:          cfg,
		world:        deps.World,
		agents:       deps.Agents,
		factory:      deps.Factory,
		surface:      deps.Surface,
		rng:          rng,
		playerTag:    deps.PlayerTag,
		owners:       make(map[model.Handle]*Point),
		live:         make(map[model.Handle]*ai.Zombie),
		initialDelay: cfg.InitialSpawnDelay.Seconds(),
	}
}

// LoadPoints loads and adds every spawn point from repo.
func (m *Manager) LoadPoints(ctx context.Context, repo SpawnPointRepository) error {
	defs, err := repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading spawn points: %w", err)
	}

	for _, def := range defs {
		if _, err := m.AddPoint(def); err != nil {
			return err
		}
	}

	slog.Info("spawn points loaded", "count", len(defs))
	return nil
}

// AddPoint validates def and adds it as a runtime spawn point.
func (m *Manager) AddPoint(def model.SpawnPoint) (*Point, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}
	p := newPoint(def, m)
	m.points = append(m.points, p)
	return p, nil
}

// Points returns the runtime spawn points in load order.
func (m *Manager) Points() []*Point {
	return m.points
}

// PointCount returns number of spawn points.
func (m *Manager) PointCount() int {
	return len(m.points)
}

// Tick advances the initial spawn delay and then every point.
func (m *Manager) Tick(dt float64) {
	if m.initialDelay > 0 {
		m.initialDelay -= dt
		if m.initialDelay > 0 {
			return
		}
		slog.Info("initial spawn delay elapsed", "points", len(m.points))
	}
	for _, p := range m.points {
		p.Tick(dt)
	}
}

// AtCapacity reports whether the global live-agent count has reached the cap.
func (m *Manager) AtCapacity() bool {
	return m.agents.Count() >= m.cfg.MaxAgents
}

// LiveCount returns the number of live registered agents.
func (m *Manager) LiveCount() int {
	return m.agents.Count()
}

// DespawnAll removes every agent this manager created, including hand-placed ones.
func (m *Manager) DespawnAll() {
	for _, p := range m.points {
		p.DespawnAll()
	}
	for _, z := range m.live {
		z.Remove()
	}
}

// Stats returns cumulative counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Spawned:   m.spawned.Load(),
		Despawned: m.despawned.Load(),
		Throttled: m.throttled.Load(),
	}
}

// playerPosition returns the hostile nearest to from.
func (m *Manager) playerPosition(from model.Vec3) (model.Vec3, bool) {
	t, ok := m.world.NearestTagged(m.playerTag, from)
	if !ok {
		return model.Vec3{}, false
	}
	return t.Entity.Position(), true
}

// spawn creates one agent at pos and registers it everywhere. owner may be nil
// for agents placed by hand.
func (m *Manager) spawn(owner *Point, pos model.Vec3, class model.Classification) (*ai.Zombie, error) {
	if m.AtCapacity() {
		m.throttled.Add(1)
		return nil, ErrPopulationCap
	}

	h := m.world.Reserve()
	z, err := m.factory.Create(h, class, pos)
	if err != nil {
		m.world.Remove(h)
		return nil, fmt.Errorf("creating %s agent: %w", class, err)
	}

	if err := m.world.Attach(h, z); err != nil {
		m.world.Remove(h)
		m.factory.Release(z)
		return nil, fmt.Errorf("attaching agent %s: %w", h, err)
	}
	z.SetOnRemove(m.remove)

	if err := m.agents.Register(z); err != nil {
		m.world.Remove(h)
		m.factory.Release(z)
		return nil, fmt.Errorf("registering agent %s: %w", h, err)
	}
	if owner != nil {
		m.owners[h] = owner
	}
	m.live[h] = z
	m.spawned.Add(1)

	slog.Debug("agent spawned",
		"agent", h,
		"class", class,
		"position", pos,
		"live", m.agents.Count())
	return z, nil
}

// remove is the single exit path for an agent: corpse expiry and despawn both end here.
func (m *Manager) remove(z *ai.Zombie) {
	h := z.Handle()
	m.agents.Unregister(h)
	m.world.Remove(h)
	delete(m.live, h)
	if p, ok := m.owners[h]; ok {
		p.forget(z)
		delete(m.owners, h)
	}
	m.factory.Release(z)
	m.despawned.Add(1)

	slog.Debug("agent removed",
		"agent", h,
		"state", z.State(),
		"live", m.agents.Count())
}
