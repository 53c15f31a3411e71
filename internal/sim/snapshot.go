package sim

import (
	"github.com/udisondev/horde/internal/ai"
	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/spawn"
)

// PlayerStatus is the debug view of the player actor.
type PlayerStatus struct {
	ID       string     `json:"id"`
	Position model.Vec3 `json:"position"`
	Health   float64    `json:"health"`
	Dead     bool       `json:"dead"`
}

// Snapshot is an immutable view of the simulation published after every step.
type Snapshot struct {
	Tick   uint64           `json:"tick"`
	Time   float64          `json:"time"`
	Live   int              `json:"live"`
	Player PlayerStatus     `json:"player"`
	Agents []ai.AgentStatus `json:"agents"`
	AI     ai.Stats         `json:"ai"`
	Spawn  spawn.Stats      `json:"spawn"`
	Events Events           `json:"events"`
}

// CountByState tallies agents per state name.
func (s *Snapshot) CountByState() map[string]int {
	out := make(map[string]int)
	for _, a := range s.Agents {
		out[a.State]++
	}
	return out
}
