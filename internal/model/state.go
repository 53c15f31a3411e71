package model

// AgentState is the behavior state of a zombie. Exactly one is active at a time.
type AgentState int32

const (
	// StateIdle - standing still, waiting for the idle timer
	StateIdle AgentState = iota
	// StateWander - roaming between random reachable points
	StateWander
	// StateAlert - investigating a last-known position without a confirmed target
	StateAlert
	// StateChase - running toward an acquired target
	StateChase
	// StateAttack - in melee range, swinging on cooldown
	StateAttack
	// StateDead - terminal
	StateDead
)

// String returns human-readable state name
func (s AgentState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateWander:
		return "WANDER"
	case StateAlert:
		return "ALERT"
	case StateChase:
		return "CHASE"
	case StateAttack:
		return "ATTACK"
	case StateDead:
		return "DEAD"
	default:
		return "UNKNOWN"
	}
}

// IsEngaged reports whether the state is locked onto a target.
// Engaged agents ignore alerts and passive aggro.
func (s AgentState) IsEngaged() bool {
	return s == StateChase || s == StateAttack
}
