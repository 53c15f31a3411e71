package world

import (
	"errors"
	"fmt"
	"sync"

	"github.com/udisondev/horde/internal/model"
)

// ErrStaleHandle is returned when a handle no longer refers to a live entity.
var ErrStaleHandle = errors.New("stale entity handle")

// Entity is anything placed in the world table.
type Entity interface {
	Position() model.Vec3
	HasTag(tag string) bool
}

// Damageable is the damage-receiving capability. Any entity can implement it;
// callers check for it with a type assertion once and cache the result.
type Damageable interface {
	TakeDamage(amount float64, attacker model.Handle)
}

// Mortal is implemented by entities that can be dead while still present
// in the table (e.g. a player corpse).
type Mortal interface {
	IsDead() bool
}

type slot struct {
	gen    uint32
	entity Entity
	live   bool
}

// Table is a generation-indexed entity table.
// Slots are reused after Remove, but every reuse bumps the generation,
// so stale handles are detected in O(1) by Resolve.
type Table struct {
	mu    sync.RWMutex
	slots []slot
	free  []uint32
	count int
}

// NewTable creates an empty entity table.
func NewTable() *Table {
	return &Table{
		slots: make([]slot, 0, 128),
	}
}

// Reserve allocates a handle without an entity attached.
// The handle does not resolve until Attach is called.
func (t *Table) Reserve() model.Handle {
	t.mu.Lock()
	defer t.mu.Unlock()

	if n := len(t.free); n > 0 {
		idx := t.free[n-1]
		t.free = t.free[:n-1]
		s := &t.slots[idx]
		s.live = true
		s.entity = nil
		t.count++
		return model.Handle{Index: idx, Gen: s.gen}
	}

	idx := uint32(len(t.slots))
	t.slots = append(t.slots, slot{gen: 1, live: true})
	t.count++
	return model.Handle{Index: idx, Gen: 1}
}

// Attach binds an entity to a reserved handle.
func (t *Table) Attach(h model.Handle, e Entity) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slotLocked(h)
	if !ok {
		return fmt.Errorf("attaching entity to %s: %w", h, ErrStaleHandle)
	}
	s.entity = e
	return nil
}

// Insert reserves a handle and attaches e to it.
func (t *Table) Insert(e Entity) model.Handle {
	h := t.Reserve()
	// Cannot fail: h was reserved above and nothing else holds it yet.
	_ = t.Attach(h, e)
	return h
}

// Remove frees the slot. Returns false if h was already stale.
func (t *Table) Remove(h model.Handle) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.slotLocked(h)
	if !ok {
		return false
	}
	s.live = false
	s.entity = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, h.Index)
	t.count--
	return true
}

// Resolve returns the entity for h, or false if h is stale or unattached.
func (t *Table) Resolve(h model.Handle) (Entity, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.slotLocked(h)
	if !ok || s.entity == nil {
		return nil, false
	}
	return s.entity, true
}

// Alive reports whether h still refers to a live slot.
func (t *Table) Alive(h model.Handle) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.slotLocked(h)
	return ok
}

// Count returns number of live slots.
func (t *Table) Count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.count
}

// slotLocked returns the live slot for h. Caller must hold mu.
func (t *Table) slotLocked(h model.Handle) (*slot, bool) {
	if h.IsZero() || int(h.Index) >= len(t.slots) {
		return nil, false
	}
	s := &t.slots[h.Index]
	if !s.live || s.gen != h.Gen {
		return nil, false
	}
	return s, true
}
