package spawn

import (
	"errors"
	"log/slog"
	"math"
	"slices"

	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/model"
)

// Point is the runtime side of a spawn point: it decides whether, when and
// how many agents to create, and despawns them when the player walks away.
type Point struct {
	def     model.SpawnPoint
	mgr     *Manager
	agents  []*ai.Zombie
	spawned bool
	respawn respawnTimer
}

func newPoint(def model.SpawnPoint, mgr *Manager) *Point {
	return &Point{
		def:     def,
		mgr:     mgr,
		respawn: respawnTimer{delay: def.RespawnTime},
	}
}

// ID returns the spawn point definition ID.
func (p *Point) ID() int64 { return p.def.ID }

// Definition returns the level placement definition.
func (p *Point) Definition() model.SpawnPoint { return p.def }

// Live returns the number of live agents this point created.
func (p *Point) Live() int { return len(p.agents) }

// HasSpawned reports whether the initial batch has run since the last despawn.
func (p *Point) HasSpawned() bool { return p.spawned }

// TryInitialSpawn spawns the first batch if the player is inside the
// distance window and no blocker is near. Returns how many agents were created.
func (p *Point) TryInitialSpawn() int {
	if p.spawned {
		return 0
	}
	player, ok := p.mgr.playerPosition(p.def.Origin)
	if !ok || !p.inWindow(player) {
		return 0
	}
	n, blocked := p.spawnBatch(player)
	if blocked {
		return 0
	}
	p.spawned = true
	return n
}

// Tick runs distance gating, the initial spawn and the respawn timer.
func (p *Point) Tick(dt float64) {
	player, ok := p.mgr.playerPosition(p.def.Origin)
	if !ok {
		return
	}

	if p.def.DespawnDistance > 0 && player.Distance(p.def.Origin) > p.def.DespawnDistance {
		if p.spawned || len(p.agents) > 0 {
			p.DespawnAll()
		}
		return
	}
	if !p.inWindow(player) {
		return
	}

	if !p.spawned {
		p.TryInitialSpawn()
		return
	}
	if len(p.agents) > 0 {
		return
	}
	if p.respawn.Advance(dt) {
		n, _ := p.spawnBatch(player)
		slog.Debug("spawn point respawned", "point", p.def.ID, "count", n)
	}
}

// DespawnAll removes every agent of this point and resets it so the
// initial batch runs again when the player returns.
func (p *Point) DespawnAll() {
	n := len(p.agents)
	for _, z := range slices.Clone(p.agents) {
		z.Remove()
	}
	p.agents = p.agents[:0]
	p.spawned = false
	p.respawn.Reset()

	if n > 0 {
		slog.Info("spawn point despawned", "point", p.def.ID, "count", n)
	}
}

func (p *Point) inWindow(player model.Vec3) bool {
	d := player.Distance(p.def.Origin)
	return d >= p.def.MinPlayerDistance && d <= p.def.MaxPlayerDistance
}

// spawnBatch creates a batch. A blocker in range cancels the whole attempt.
// The global cap is checked before every agent and stops the batch.
func (p *Point) spawnBatch(player model.Vec3) (created int, blocked bool) {
	if p.def.BlockerTag != "" && p.mgr.world.AnyTaggedWithin(p.def.BlockerTag, p.def.Origin, p.def.BlockCheckRadius) {
		slog.Debug("spawn blocked", "point", p.def.ID, "tag", p.def.BlockerTag)
		return 0, true
	}

	count := p.def.MinCount
	if p.def.MaxCount > p.def.MinCount {
		count += p.mgr.rng.IntN(p.def.MaxCount - p.def.MinCount + 1)
	}
	count = min(count, p.def.MaxCount-len(p.agents))

	for range count {
		if p.mgr.AtCapacity() {
			p.mgr.throttled.Add(1)
			slog.Debug("population cap reached", "point", p.def.ID, "created", created, "wanted", count)
			break
		}
		pos, ok := p.place(player)
		if !ok {
			slog.Debug("no spawn position found", "point", p.def.ID)
			continue
		}
		z, err := p.mgr.spawn(p, pos, p.pickClass())
		if errors.Is(err, ErrPopulationCap) {
			break
		}
		if err != nil {
			slog.Error("spawning agent", "point", p.def.ID, "error", err)
			continue
		}
		p.agents = append(p.agents, z)
		created++
	}

	if created > 0 {
		slog.Info("spawn point spawned",
			"point", p.def.ID,
			"count", created,
			"live", p.mgr.LiveCount())
	}
	return created, false
}

// place samples the spawn area until a candidate lands on the navigation
// surface and keeps its distance from the player.
func (p *Point) place(player model.Vec3) (model.Vec3, bool) {
	retries := max(p.mgr.cfg.PlacementRetries, 1)
	for range retries {
		pos, ok := p.mgr.surface.SampleValidPosition(p.sampleArea(), p.mgr.cfg.SurfaceTolerance)
		if !ok {
			continue
		}
		if pos.Distance(player) < p.def.MinPlayerDistance {
			continue
		}
		return pos, true
	}
	return model.Vec3{}, false
}

func (p *Point) sampleArea() model.Vec3 {
	o := p.def.Origin
	rng := p.mgr.rng
	switch p.def.Shape {
	case model.AreaBox:
		return model.V(
			o.X+(rng.Float64()*2-1)*p.def.Extent.X,
			o.Y,
			o.Z+(rng.Float64()*2-1)*p.def.Extent.Z,
		)
	default:
		angle := rng.Float64() * 2 * math.Pi
		r := math.Sqrt(rng.Float64()) * p.def.Radius
		return model.V(o.X+math.Cos(angle)*r, o.Y, o.Z+math.Sin(angle)*r)
	}
}

func (p *Point) pickClass() model.Classification {
	classes := p.def.Classes
	if len(classes) == 0 {
		classes = model.AllClassifications
	}
	return classes[p.mgr.rng.IntN(len(classes))]
}

// forget drops z from the live list. Called by the manager on removal.
func (p *Point) forget(z *ai.Zombie) {
	if i := slices.Index(p.agents, z); i >= 0 {
		p.agents = slices.Delete(p.agents, i, i+1)
	}
}
