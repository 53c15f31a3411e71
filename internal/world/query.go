package world

import (
	"math"

	"github.com/udisondev/horde/internal/model"
)

// Tagged is a handle/entity pair returned by queries.
type Tagged struct {
	Handle model.Handle
	Entity Entity
}

// WithTag returns a snapshot of all entities carrying tag, in slot order.
// The snapshot is taken under the read lock; callers may mutate the table
// while iterating it.
func (t *Table) WithTag(tag string) []Tagged {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []Tagged
	for i := range t.slots {
		s := &t.slots[i]
		if !s.live || s.entity == nil || !s.entity.HasTag(tag) {
			continue
		}
		out = append(out, Tagged{
			Handle: model.Handle{Index: uint32(i), Gen: s.gen},
			Entity: s.entity,
		})
	}
	return out
}

// NearestTagged finds the nearest entity with tag to pos.
func (t *Table) NearestTagged(tag string, pos model.Vec3) (Tagged, bool) {
	best := Tagged{}
	bestDistSq := math.Inf(1)

	for _, c := range t.WithTag(tag) {
		if d := c.Entity.Position().DistanceSquared(pos); d < bestDistSq {
			best = c
			bestDistSq = d
		}
	}
	return best, !best.Handle.IsZero()
}

// AnyTaggedWithin reports whether any entity with tag lies within radius of pos.
// This is the overlap query used by spawn blocking checks.
func (t *Table) AnyTaggedWithin(tag string, pos model.Vec3, radius float64) bool {
	if tag == "" || radius <= 0 {
		return false
	}
	radiusSq := radius * radius
	for _, c := range t.WithTag(tag) {
		if c.Entity.Position().DistanceSquared(pos) <= radiusSq {
			return true
		}
	}
	return false
}

// IsAlive reports whether e should still be treated as a live target.
func IsAlive(e Entity) bool {
	if m, ok := e.(Mortal); ok {
		return !m.IsDead()
	}
	return true
}
