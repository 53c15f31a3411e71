package nav

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/horde/internal/model"
)

func TestAgent_FollowsPath(t *testing.T) {
	m := testMesh(t)
	a := NewAgent(m, model.V(0.5, 0, 0.5), model.Vec3{})
	a.SetSpeed(2)

	dest := model.V(7.5, 0, 0.5)
	require.True(t, a.SetDestination(dest))
	assert.True(t, a.HasPath())
	assert.InDelta(t, 7.0, a.RemainingDistance(), 1e-9)

	a.Advance(1)
	assert.InDelta(t, 2.5, a.Position().X, 1e-9)
	assert.InDelta(t, 5.0, a.RemainingDistance(), 1e-9)
	assert.InDelta(t, 2.0, a.Velocity().Length(), 1e-9)
	assert.Equal(t, model.V(1, 0, 0), a.Forward())

	for range 10 {
		a.Advance(1)
	}
	assert.Equal(t, dest, a.Position())
	assert.False(t, a.HasPath())
	assert.Equal(t, 0.0, a.RemainingDistance())
}

func TestAgent_StoppedKeepsPath(t *testing.T) {
	m := testMesh(t)
	a := NewAgent(m, model.V(0.5, 0, 0.5), model.V(0, 0, 1))
	a.SetSpeed(1)
	require.True(t, a.SetDestination(model.V(7.5, 0, 0.5)))

	a.SetStopped(true)
	a.Advance(1)
	assert.Equal(t, model.V(0.5, 0, 0.5), a.Position())
	assert.True(t, a.HasPath())
	assert.Equal(t, model.Vec3{}, a.Velocity())

	a.SetStopped(false)
	a.Advance(1)
	assert.InDelta(t, 1.5, a.Position().X, 1e-9)
}

func TestAgent_UnreachableDestination(t *testing.T) {
	m := testMesh(t)
	a := NewAgent(m, model.V(0.5, 0, 0.5), model.Vec3{})

	assert.False(t, a.SetDestination(model.V(3.5, 0, 1.5)), "destination inside wall")
	assert.False(t, a.HasPath())
}

func TestAgent_RoutesAroundObstacle(t *testing.T) {
	m := testMesh(t)
	a := NewAgent(m, model.V(2.5, 0, 1.5), model.Vec3{})
	a.SetSpeed(1)

	dest := model.V(5.5, 0, 1.5)
	require.True(t, a.SetDestination(dest))
	assert.Greater(t, a.RemainingDistance(), 3.0, "path must bend around the wall")

	for range 20 {
		a.Advance(0.5)
		assert.True(t, a.IsOnSurface(), "agent walked into a wall at %v", a.Position())
	}
	assert.Equal(t, dest, a.Position())
}

func TestAgent_FaceTowards(t *testing.T) {
	m := testMesh(t)
	a := NewAgent(m, model.V(0.5, 0, 0.5), model.V(0, 0, 1))

	a.FaceTowards(model.V(0.5, 5, -3))
	assert.InDelta(t, -1.0, a.Forward().Z, 1e-9)
	assert.InDelta(t, 0.0, a.Forward().Y, 1e-9)

	before := a.Forward()
	a.FaceTowards(a.Position())
	assert.Equal(t, before, a.Forward(), "facing own position is a no-op")
	assert.False(t, math.IsNaN(a.Forward().X))
}
