package ai

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/model"
)

// ErrAlreadyRegistered is returned when a handle is registered twice.
var ErrAlreadyRegistered = errors.New("controller already registered")

// Stats are cumulative manager counters.
type Stats struct {
	Ticks      int64 `json:"ticks"`
	Broadcasts int64 `json:"broadcasts"`
	Alerted    int64 `json:"alerted"`
	Faults     int64 `json:"faults"`
}

// Manager is the registry of live agents. It ticks them in registration order
// and relays alert broadcasts. Iteration always runs over a snapshot, so
// agents may register or unregister from inside a tick or broadcast.
type Manager struct {
	mu          sync.RWMutex
	controllers []Controller
	index       map[model.Handle]int

	controllerCount atomic.Int32 // cached count of controllers (O(1) access)

	alert config.Alert

	ticks      atomic.Int64
	broadcasts atomic.Int64
	alerted    atomic.Int64
	faults     atomic.Int64
}

// NewManager creates an empty registry with the given broadcast tunables.
func NewManager(alert config.Alert) *Manager {
	return &Manager{
		index: make(map[model.Handle]int),
		alert: alert,
	}
}

// Register adds controller and starts it.
func (m *Manager) Register(controller Controller) error {
	h := controller.Handle()

	m.mu.Lock()
	if _, ok := m.index[h]; ok {
		m.mu.Unlock()
		return fmt.Errorf("registering %s: %w", h, ErrAlreadyRegistered)
	}
	m.index[h] = len(m.controllers)
	m.controllers = append(m.controllers, controller)
	m.mu.Unlock()

	m.controllerCount.Add(1)
	controller.Start()

	if IsDebugEnabled() {
		slog.Debug("AI controller registered",
			"agent", h,
			"state", controller.State())
	}
	return nil
}

// Unregister removes and stops the controller for h.
// Returns false if it was not registered.
func (m *Manager) Unregister(h model.Handle) bool {
	m.mu.Lock()
	i, ok := m.index[h]
	if !ok {
		m.mu.Unlock()
		return false
	}
	controller := m.controllers[i]
	m.controllers = append(m.controllers[:i], m.controllers[i+1:]...)
	delete(m.index, h)
	for j := i; j < len(m.controllers); j++ {
		m.index[m.controllers[j].Handle()] = j
	}
	m.mu.Unlock()

	m.controllerCount.Add(-1)
	controller.Stop()

	if IsDebugEnabled() {
		slog.Debug("AI controller unregistered", "agent", h)
	}
	return true
}

// Count returns number of registered controllers (O(1) cached count).
func (m *Manager) Count() int {
	return int(m.controllerCount.Load())
}

// GetController returns the controller registered for h.
func (m *Manager) GetController(h model.Handle) (Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[h]
	if !ok {
		return nil, fmt.Errorf("controller not found for agent %s", h)
	}
	return m.controllers[i], nil
}

// snapshot copies the registry so callers iterate without holding the lock.
func (m *Manager) snapshot() []Controller {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Controller(nil), m.controllers...)
}

// TickAll advances every registered agent by dt seconds.
// A panicking agent is logged and skipped; the rest still tick.
func (m *Manager) TickAll(dt float64) {
	list := m.snapshot()
	for _, c := range list {
		m.guard(c, "tick", func() { c.Tick(dt) })
	}
	m.ticks.Add(1)

	if len(list) > 0 && IsDebugEnabled() {
		slog.Debug("AI tick completed", "controllers", len(list))
	}
}

// EffectiveRange returns the broadcast radius for a shot.
func (m *Manager) EffectiveRange(silenced bool) float64 {
	if silenced {
		return m.alert.GunshotRange * m.alert.SilencedMultiplier
	}
	return m.alert.GunshotRange
}

// Broadcast relays a gunshot at origin to every living agent strictly inside
// the effective range. Returns how many agents reacted.
func (m *Manager) Broadcast(origin model.Vec3, silenced bool) int {
	radius := m.EffectiveRange(silenced)
	radiusSq := radius * radius

	reacted := 0
	notified := 0
	for _, c := range m.snapshot() {
		if c.State() == model.StateDead {
			continue
		}
		if c.Position().DistanceSquared(origin) >= radiusSq {
			continue
		}
		notified++
		m.guard(c, "alert", func() {
			if c.OnAlertHeard(origin, radius) {
				reacted++
			}
		})
	}

	m.broadcasts.Add(1)
	m.alerted.Add(int64(reacted))

	slog.Debug("alert broadcast",
		"origin", origin,
		"silenced", silenced,
		"range", radius,
		"notified", notified,
		"reacted", reacted)
	return reacted
}

// Snapshot returns the debug status of every registered agent.
func (m *Manager) Snapshot() []AgentStatus {
	list := m.snapshot()
	out := make([]AgentStatus, 0, len(list))
	for _, c := range list {
		m.guard(c, "status", func() { out = append(out, c.Status()) })
	}
	return out
}

// Stats returns cumulative counters.
func (m *Manager) Stats() Stats {
	return Stats{
		Ticks:      m.ticks.Load(),
		Broadcasts: m.broadcasts.Load(),
		Alerted:    m.alerted.Load(),
		Faults:     m.faults.Load(),
	}
}

func (m *Manager) guard(c Controller, op string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			m.faults.Add(1)
			slog.Error("agent fault recovered",
				"agent", c.Handle(),
				"op", op,
				"panic", r)
		}
	}()
	fn()
}
