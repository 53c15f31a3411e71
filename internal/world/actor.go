package world

import (
	"slices"
	"sync"

	"github.com/udisondev/horde/internal/model"
)

// Actor is a plain world entity: the player, a blocker volume, a decoy.
// It is Damageable and Mortal when created with positive max health.
type Actor struct {
	mu        sync.RWMutex
	pos       model.Vec3
	tags      []string
	health    float64
	maxHealth float64
	lastHit   model.Handle
}

// NewActor creates an actor at pos with the given tags.
// maxHealth <= 0 makes the actor indestructible.
func NewActor(pos model.Vec3, maxHealth float64, tags ...string) *Actor {
	return &Actor{
		pos:       pos,
		tags:      tags,
		health:    maxHealth,
		maxHealth: maxHealth,
	}
}

// Position returns current position.
func (a *Actor) Position() model.Vec3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.pos
}

// SetPosition moves the actor.
func (a *Actor) SetPosition(pos model.Vec3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pos = pos
}

// HasTag reports whether the actor carries tag.
func (a *Actor) HasTag(tag string) bool {
	return slices.Contains(a.tags, tag)
}

// TakeDamage reduces health, clamped at zero.
func (a *Actor) TakeDamage(amount float64, attacker model.Handle) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.maxHealth <= 0 || amount <= 0 {
		return
	}
	a.health = max(a.health-amount, 0)
	a.lastHit = attacker
}

// Health returns current health.
func (a *Actor) Health() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.health
}

// LastAttacker returns the handle of the last entity that damaged the actor.
func (a *Actor) LastAttacker() model.Handle {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastHit
}

// IsDead reports whether a destructible actor ran out of health.
func (a *Actor) IsDead() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.maxHealth > 0 && a.health <= 0
}
