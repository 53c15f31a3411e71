package testutil

import (
	"sync"

	"github.com/udisondev/horde/internal/model"
)

// FakeNavigator is a navigation agent and transform for tests without a mesh.
// SetDestination only records the goal and RemainingDistance is measured in a
// straight line. Tests move the agent with Warp or Arrive.
type FakeNavigator struct {
	mu sync.Mutex

	pos     model.Vec3
	forward model.Vec3

	dest    model.Vec3
	hasPath bool
	speed   float64
	stopped bool

	// OnSurface is returned by IsOnSurface (default true)
	OnSurface bool
	// RejectDestinations makes SetDestination return false
	RejectDestinations bool
	// SampleFails makes SampleValidPosition return false
	SampleFails bool

	Destinations []model.Vec3
	Resets       int
}

// NewFakeNavigator returns a navigator at pos facing +Z.
func NewFakeNavigator(pos model.Vec3) *FakeNavigator {
	return &FakeNavigator{
		pos:       pos,
		forward:   model.V(0, 0, 1),
		OnSurface: true,
	}
}

func (n *FakeNavigator) SetDestination(pos model.Vec3) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.RejectDestinations {
		return false
	}
	n.dest = pos
	n.hasPath = true
	n.Destinations = append(n.Destinations, pos)
	return true
}

func (n *FakeNavigator) ResetPath() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.hasPath = false
	n.Resets++
}

func (n *FakeNavigator) HasPath() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.hasPath
}

func (n *FakeNavigator) RemainingDistance() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if !n.hasPath {
		return 0
	}
	return n.pos.Distance(n.dest)
}

func (n *FakeNavigator) IsOnSurface() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.OnSurface
}

func (n *FakeNavigator) SampleValidPosition(near model.Vec3, _ float64) (model.Vec3, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.SampleFails {
		return model.Vec3{}, false
	}
	return near, true
}

func (n *FakeNavigator) Speed() float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.speed
}

func (n *FakeNavigator) SetSpeed(speed float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.speed = speed
}

func (n *FakeNavigator) Stopped() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.stopped
}

func (n *FakeNavigator) SetStopped(stopped bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopped = stopped
}

func (n *FakeNavigator) Velocity() model.Vec3 { return model.Vec3{} }

func (n *FakeNavigator) Position() model.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.pos
}

func (n *FakeNavigator) Forward() model.Vec3 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.forward
}

func (n *FakeNavigator) FaceTowards(target model.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	dir := target.Sub(n.pos).Flat()
	if dir.LengthSquared() == 0 {
		return
	}
	n.forward = dir.Normalized()
}

// Warp teleports the agent.
func (n *FakeNavigator) Warp(pos model.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pos = pos
}

// SetForward sets the facing direction.
func (n *FakeNavigator) SetForward(f model.Vec3) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forward = f
}

// Arrive moves the agent onto its destination and clears the path.
func (n *FakeNavigator) Arrive() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.hasPath {
		n.pos = n.dest
	}
	n.hasPath = false
}

// LastDestination returns the last accepted destination.
func (n *FakeNavigator) LastDestination() (model.Vec3, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.Destinations) == 0 {
		return model.Vec3{}, false
	}
	return n.Destinations[len(n.Destinations)-1], true
}
