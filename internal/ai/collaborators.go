package ai

import (
	"github.com/udisondev/horde/internal/model"
	"github.com/udisondev/horde/internal/world"
)

// Navigator is the navigation-agent collaborator. The state machine only
// issues orders and reads path state; path planning is the navigator's business.
type Navigator interface {
	SetDestination(pos model.Vec3) bool
	ResetPath()
	HasPath() bool
	RemainingDistance() float64
	IsOnSurface() bool
	SampleValidPosition(near model.Vec3, maxRadius float64) (model.Vec3, bool)
	Speed() float64
	SetSpeed(speed float64)
	Stopped() bool
	SetStopped(stopped bool)
	Velocity() model.Vec3
}

// Body is the transform collaborator: the pose is read from it every tick.
type Body interface {
	Position() model.Vec3
	Forward() model.Vec3
	FaceTowards(target model.Vec3)
}

// EntityLookup resolves target handles and finds hostiles by tag.
// *world.Table implements it.
type EntityLookup interface {
	Resolve(h model.Handle) (world.Entity, bool)
	WithTag(tag string) []world.Tagged
}

// Hooks receives cosmetic notifications (animation, audio, ragdoll, loot).
// Calls are fire-and-forget; implementations must not block.
type Hooks interface {
	StateEntered(agent model.Handle, from, to model.AgentState)
	Attacked(agent, target model.Handle)
	Died(agent model.Handle)
	AmbientSound(agent model.Handle, state model.AgentState)
}

// NopHooks ignores every notification.
type NopHooks struct{}

func (NopHooks) StateEntered(model.Handle, model.AgentState, model.AgentState) {}
func (NopHooks) Attacked(model.Handle, model.Handle)                           {}
func (NopHooks) Died(model.Handle)                                             {}
func (NopHooks) AmbientSound(model.Handle, model.AgentState)                   {}

// Rand is the randomness source for timers and wander points.
// *rand.Rand from math/rand/v2 implements it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// staticBody stands in when no transform is bound.
type staticBody struct {
	pos model.Vec3
}

func (b *staticBody) Position() model.Vec3   { return b.pos }
func (b *staticBody) Forward() model.Vec3    { return model.V(0, 0, 1) }
func (b *staticBody) FaceTowards(model.Vec3) {}
