package combat

import (
	"log/slog"

	"github.com/udisondev/horde/internal/model"
)

// AggroReceiver is told who hurt the agent on every non-fatal hit.
type AggroReceiver interface {
	OnDamaged(attacker model.Handle)
}

// DeathReceiver is told once when health reaches zero.
type DeathReceiver interface {
	Die()
}

// Positioner supplies the agent base position for hit-height resolution.
type Positioner interface {
	Position() model.Vec3
}

// Health tracks damage for one agent. Health is kept within [0, max];
// reaching zero is terminal and fires death notifications exactly once.
type Health struct {
	current float64
	max     float64
	dead    bool

	mult         Multipliers
	headCollider ColliderID
	body         Positioner

	aggro   AggroReceiver
	death   DeathReceiver
	onDeath []func()
}

// NewHealth creates a full-health model. body may be nil, in which case hit
// heights are measured from the world origin.
func NewHealth(maxHealth float64, mult Multipliers, headCollider ColliderID, body Positioner) *Health {
	maxHealth = max(maxHealth, 1)
	return &Health{
		current:      maxHealth,
		max:          maxHealth,
		mult:         mult,
		headCollider: headCollider,
		body:         body,
	}
}

// Bind connects the state machine that reacts to hits and death.
func (h *Health) Bind(aggro AggroReceiver, death DeathReceiver) {
	h.aggro = aggro
	h.death = death
}

// OnDeath registers a cosmetic death listener (loot, ragdoll, counters).
func (h *Health) OnDeath(fn func()) {
	h.onDeath = append(h.onDeath, fn)
}

// ApplyDamage applies a hit and returns the new health and whether the agent is dead.
// Damage on a dead agent is a no-op.
func (h *Health) ApplyDamage(amount float64, hitPoint model.Vec3, collider ColliderID, attacker model.Handle) (float64, bool) {
	if h.dead {
		return h.current, true
	}
	if !(amount > 0) {
		return h.current, false
	}

	var base model.Vec3
	if h.body != nil {
		base = h.body.Position()
	}
	zone := ResolveZone(hitPoint, base, collider, h.headCollider)
	dealt := amount * h.mult.For(zone)
	if !(dealt > 0) {
		dealt = 0
	}

	h.current = min(max(h.current-dealt, 0), h.max)

	slog.Debug("agent damaged",
		"zone", zone,
		"amount", amount,
		"dealt", dealt,
		"health", h.current,
		"attacker", attacker)

	if h.current <= 0 {
		h.die()
		return 0, true
	}

	if h.aggro != nil && !attacker.IsZero() {
		h.aggro.OnDamaged(attacker)
	}
	return h.current, false
}

// Heal restores health up to max. No effect on a dead agent.
func (h *Health) Heal(amount float64) {
	if h.dead || !(amount > 0) {
		return
	}
	h.current = min(h.current+amount, h.max)
}

// SetMaxHealth changes max health. With healToFull a live agent is restored to
// the new max; otherwise current is clamped to it. Non-positive values are ignored.
func (h *Health) SetMaxHealth(value float64, healToFull bool) {
	if !(value > 0) {
		return
	}
	h.max = value
	if h.dead {
		return
	}
	if healToFull {
		h.current = value
		return
	}
	h.current = min(h.current, value)
}

// Current returns current health.
func (h *Health) Current() float64 { return h.current }

// Max returns max health.
func (h *Health) Max() float64 { return h.max }

// IsDead reports whether health reached zero.
func (h *Health) IsDead() bool { return h.dead }

func (h *Health) die() {
	if h.dead {
		return
	}
	h.dead = true
	h.current = 0

	if h.death != nil {
		h.death.Die()
	}
	for _, fn := range h.onDeath {
		fn()
	}
}
