package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/horde/internal/model"
)

func TestFindPath_Direct(t *testing.T) {
	g := testGrid(t)

	to := model.V(9.5, 0, 0.5)
	path := g.FindPath(model.V(0.5, 0, 0.5), to)
	assert.Equal(t, []model.Vec3{to}, path)
}

func TestFindPath_AroundWall(t *testing.T) {
	g := testGrid(t)

	from := model.V(3.5, 0, 4.5)
	to := model.V(7.5, 0, 4.5)
	path := g.FindPath(from, to)
	require.NotEmpty(t, path)
	assert.Equal(t, to, path[len(path)-1])

	// Every leg must be walkable in a straight line.
	prev := from
	for _, wp := range path {
		assert.True(t, g.CanMoveToTarget(prev, wp), "leg %v -> %v crosses an obstacle", prev, wp)
		prev = wp
	}
}

func TestFindPath_Unreachable(t *testing.T) {
	g, err := ParseGrid([]string{
		"..#..",
		"..#..",
		"..#..",
	}, 1, model.Vec3{})
	require.NoError(t, err)

	assert.Nil(t, g.FindPath(model.V(0.5, 0, 0.5), model.V(4.5, 0, 0.5)))
	assert.Nil(t, g.FindPath(model.V(0.5, 0, 0.5), model.V(2.5, 0, 0.5)), "goal inside wall")
}
