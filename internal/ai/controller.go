package ai

import "github.com/udisondev/horde/internal/model"

// Controller is an agent driven by the Manager.
type Controller interface {
	// Handle returns the agent's world handle
	Handle() model.Handle

	// Start starts the controller (called on Register)
	Start()

	// Stop stops the controller (called on Unregister)
	Stop()

	// Tick advances the agent by dt seconds
	Tick(dt float64)

	// State returns the current behavior state
	State() model.AgentState

	// Position returns the agent's current world position
	Position() model.Vec3

	// OnAlertHeard delivers a broadcast stimulus. Returns true if the agent reacted.
	OnAlertHeard(origin model.Vec3, effectiveRange float64) bool

	// Status returns a debug snapshot of the agent
	Status() AgentStatus
}

// AgentStatus is a point-in-time view of one agent for the debug HUD.
type AgentStatus struct {
	ID       string     `json:"id"`
	State    string     `json:"state"`
	Class    string     `json:"class"`
	Position model.Vec3 `json:"position"`
	Health   float64    `json:"health"`
	Target   string     `json:"target,omitempty"`
}
