package testutil

import (
	"github.com/udisondev/horde/internal/config"
	"github.com/udisondev/horde/internal/model"
)

// HostileTag is the player tag used by test configs.
const HostileTag = "player"

// AgentConfig returns agent tunables with deterministic timers:
// idle 2s, no wander jitter, ambient every 10s.
func AgentConfig() config.Agent {
	cfg := config.DefaultAgent()
	cfg.HostileTag = HostileTag
	cfg.IdleMin = 2
	cfg.IdleMax = 2
	cfg.WanderJitter = 0
	cfg.AmbientMin = 10
	cfg.AmbientMax = 10
	return cfg
}

// AlertConfig returns a gunshot range of 50 with a 0.3 silencer multiplier.
func AlertConfig() config.Alert {
	return config.Alert{GunshotRange: 50, SilencedMultiplier: 0.3}
}

// WalkerSpeeds are the default walker speeds.
var WalkerSpeeds = model.Speeds{Walk: 1, Run: 3.5}
