package nav

import "github.com/udisondev/horde/internal/model"

// Agent is a navigator bound to one body on a Mesh.
// It holds the body pose (position + forward) and follows paths
// computed on the mesh when advanced by the host loop.
type Agent struct {
	mesh *Mesh

	pos     model.Vec3
	forward model.Vec3

	path     []model.Vec3
	speed    float64
	stopped  bool
	velocity model.Vec3
}

// NewAgent places a navigator at pos facing forward.
func NewAgent(mesh *Mesh, pos, forward model.Vec3) *Agent {
	if forward.Flat().LengthSquared() < 1e-9 {
		forward = model.V(0, 0, 1)
	}
	return &Agent{
		mesh:    mesh,
		pos:     pos,
		forward: forward.Flat().Normalized(),
	}
}

// Position returns the body position.
func (a *Agent) Position() model.Vec3 { return a.pos }

// Forward returns the unit facing direction on the XZ plane.
func (a *Agent) Forward() model.Vec3 { return a.forward }

// FaceTowards turns the body to look at target (yaw only).
func (a *Agent) FaceTowards(target model.Vec3) {
	dir := target.Sub(a.pos).Flat()
	if dir.LengthSquared() < 1e-9 {
		return
	}
	a.forward = dir.Normalized()
}

// Warp teleports the body and drops the current path.
func (a *Agent) Warp(pos model.Vec3) {
	a.pos = pos
	a.ResetPath()
}

// SetDestination computes a path to dest. Returns false when dest is unreachable;
// the previous path is dropped either way.
func (a *Agent) SetDestination(dest model.Vec3) bool {
	a.path = a.mesh.FindPath(a.pos, dest)
	return len(a.path) > 0
}

// ResetPath clears the current path.
func (a *Agent) ResetPath() {
	a.path = nil
	a.velocity = model.Vec3{}
}

// HasPath reports whether the agent is following a path.
func (a *Agent) HasPath() bool { return len(a.path) > 0 }

// RemainingDistance returns the length of what is left of the path.
func (a *Agent) RemainingDistance() float64 {
	if len(a.path) == 0 {
		return 0
	}
	total := a.pos.Distance(a.path[0])
	for i := 1; i < len(a.path); i++ {
		total += a.path[i-1].Distance(a.path[i])
	}
	return total
}

// IsOnSurface reports whether the body stands on the mesh.
func (a *Agent) IsOnSurface() bool { return a.mesh.IsOnSurface(a.pos) }

// SampleValidPosition delegates to the mesh.
func (a *Agent) SampleValidPosition(near model.Vec3, maxRadius float64) (model.Vec3, bool) {
	return a.mesh.SampleValidPosition(near, maxRadius)
}

// Speed returns movement speed in units per second.
func (a *Agent) Speed() float64 { return a.speed }

// SetSpeed sets movement speed.
func (a *Agent) SetSpeed(speed float64) { a.speed = max(speed, 0) }

// Stopped reports whether movement is suspended.
func (a *Agent) Stopped() bool { return a.stopped }

// SetStopped suspends or resumes movement without dropping the path.
func (a *Agent) SetStopped(stopped bool) {
	a.stopped = stopped
	if stopped {
		a.velocity = model.Vec3{}
	}
}

// Velocity returns the velocity of the last Advance.
func (a *Agent) Velocity() model.Vec3 { return a.velocity }

// Advance moves the body along its path by speed*dt.
func (a *Agent) Advance(dt float64) {
	if a.stopped || len(a.path) == 0 || dt <= 0 || a.speed <= 0 {
		a.velocity = model.Vec3{}
		return
	}

	start := a.pos
	budget := a.speed * dt
	for budget > 0 && len(a.path) > 0 {
		next := a.path[0]
		d := a.pos.Distance(next)
		if d <= budget {
			a.pos = next
			budget -= d
			a.path = a.path[1:]
			continue
		}
		a.pos = a.pos.MoveTowards(next, budget)
		budget = 0
	}

	moved := a.pos.Sub(start)
	a.velocity = moved.Scale(1 / dt)
	if flat := moved.Flat(); flat.LengthSquared() > 1e-9 {
		a.forward = flat.Normalized()
	}
	if len(a.path) == 0 {
		a.path = nil
	}
}
