package sim

import (
	"log/slog"
	"sync/atomic"

	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/model"
)

// Events are cumulative cosmetic notification counters.
type Events struct {
	Transitions int64 `json:"transitions"`
	Attacks     int64 `json:"attacks"`
	Deaths      int64 `json:"deaths"`
	Ambient     int64 `json:"ambient"`
}

// eventHooks stands in for the animation, audio and ragdoll layers of a game
// client: it counts notifications and logs them at debug level.
type eventHooks struct {
	transitions atomic.Int64
	attacks     atomic.Int64
	deaths      atomic.Int64
	ambient     atomic.Int64
}

var _ ai.Hooks = (*eventHooks)(nil)

func (h *eventHooks) StateEntered(agent model.Handle, from, to model.AgentState) {
	h.transitions.Add(1)
	if ai.IsDebugEnabled() {
		slog.Debug("agent state changed", "agent", agent, "from", from, "to", to)
	}
}

func (h *eventHooks) Attacked(agent, target model.Handle) {
	h.attacks.Add(1)
	if ai.IsDebugEnabled() {
		slog.Debug("agent attacked", "agent", agent, "target", target)
	}
}

func (h *eventHooks) Died(agent model.Handle) {
	h.deaths.Add(1)
	slog.Debug("agent died", "agent", agent)
}

func (h *eventHooks) AmbientSound(agent model.Handle, state model.AgentState) {
	h.ambient.Add(1)
}

func (h *eventHooks) snapshot() Events {
	return Events{
		Transitions: h.transitions.Load(),
		Attacks:     h.attacks.Load(),
		Deaths:      h.deaths.Load(),
		Ambient:     h.ambient.Load(),
	}
}
