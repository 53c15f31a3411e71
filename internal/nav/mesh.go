package nav

import (
	"math"

	"github.com/udisondev/horde/internal/geo"
	"github.com/udisondev/horde/internal/model"
)

// Mesh is the walkable navigation surface, backed by an occupancy grid.
// All positions on the surface have Y = 0.
type Mesh struct {
	grid *geo.Grid
}

// NewMesh wraps a grid as a navigation surface.
func NewMesh(grid *geo.Grid) *Mesh {
	return &Mesh{grid: grid}
}

// Grid returns the underlying occupancy grid.
func (m *Mesh) Grid() *geo.Grid {
	return m.grid
}

// IsOnSurface reports whether p stands on walkable floor.
func (m *Mesh) IsOnSurface(p model.Vec3) bool {
	return m.grid.Walkable(p)
}

// SampleValidPosition returns the closest walkable position to near
// within maxRadius. A walkable input is returned as-is (projected to the floor).
func (m *Mesh) SampleValidPosition(near model.Vec3, maxRadius float64) (model.Vec3, bool) {
	floor := near
	floor.Y = 0
	if m.grid.Walkable(floor) {
		return floor, true
	}
	if maxRadius <= 0 {
		return model.Vec3{}, false
	}

	cs := m.grid.CellSize()
	cx, cz, _ := m.grid.CellOf(floor)
	reach := int(math.Ceil(maxRadius/cs)) + 1
	maxSq := maxRadius * maxRadius

	best := model.Vec3{}
	bestSq := math.Inf(1)
	for dz := -reach; dz <= reach; dz++ {
		for dx := -reach; dx <= reach; dx++ {
			x, z := cx+dx, cz+dz
			if !m.grid.CellWalkable(x, z) {
				continue
			}
			c := m.grid.CellCenter(x, z)
			if d := c.DistanceSquared(floor); d <= maxSq && d < bestSq {
				best, bestSq = c, d
			}
		}
	}
	return best, !math.IsInf(bestSq, 1)
}

// FindPath returns waypoints from one surface position to another, or nil.
func (m *Mesh) FindPath(from, to model.Vec3) []model.Vec3 {
	return m.grid.FindPath(from, to)
}
