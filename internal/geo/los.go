package geo

import "github.com/udisondev/horde/internal/model"

// LineOfSight checks whether a straight ray from one world position to another
// passes over every obstacle between them. The ray height is interpolated
// linearly along the cells; an obstacle blocks when its top is above the ray.
// The start and end cells are not tested so an agent hugging a wall can still see.
func (g *Grid) LineOfSight(from, to model.Vec3) bool {
	sx, sz, _ := g.CellOf(from)
	ex, ez, _ := g.CellOf(to)

	if sx == ex && sz == ez {
		return true
	}

	it := NewLineIterator(sx, sz, ex, ez)
	steps := it.Steps()
	i := 0
	for it.Next() {
		cx, cz := it.X(), it.Z()
		if (cx == sx && cz == sz) || (cx == ex && cz == ez) {
			i++
			continue
		}

		t := float64(i) / float64(steps-1)
		rayY := from.Y + (to.Y-from.Y)*t
		if g.Height(cx, cz) > rayY {
			return false
		}
		i++
	}
	return true
}

// CanMoveToTarget checks that every cell on the straight segment is walkable.
func (g *Grid) CanMoveToTarget(from, to model.Vec3) bool {
	sx, sz, ok := g.CellOf(from)
	if !ok {
		return false
	}
	ex, ez, ok := g.CellOf(to)
	if !ok {
		return false
	}

	it := NewLineIterator(sx, sz, ex, ez)
	prevX, prevZ := sx, sz
	for it.Next() {
		cx, cz := it.X(), it.Z()
		if !g.CellWalkable(cx, cz) {
			return false
		}
		// Diagonal step: both adjacent cardinals must be open (no corner cut).
		if cx != prevX && cz != prevZ {
			if !g.CellWalkable(cx, prevZ) || !g.CellWalkable(prevX, cz) {
				return false
			}
		}
		prevX, prevZ = cx, cz
	}
	return true
}
