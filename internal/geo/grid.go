package geo

import (
	"fmt"
	"math"

	"github.com/udisondev/horde/internal/model"
)

// Grid is a flat occupancy grid over the XZ plane.
// Every cell stores the top height of the obstacle standing in it;
// zero means open floor. Any obstacle blocks walking, but only obstacles
// taller than the sight ray block line of sight.
type Grid struct {
	cellSize float64
	width    int // cells along X
	depth    int // cells along Z
	originX  float64
	originZ  float64
	heights  []float64
}

// NewGrid creates an all-open grid whose min corner is at origin.
func NewGrid(width, depth int, cellSize float64, origin model.Vec3) *Grid {
	if width < 1 {
		width = 1
	}
	if depth < 1 {
		depth = 1
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Grid{
		cellSize: cellSize,
		width:    width,
		depth:    depth,
		originX:  origin.X,
		originZ:  origin.Z,
		heights:  make([]float64, width*depth),
	}
}

// ParseGrid builds a grid from text rows. Row 0 is the min-Z edge,
// column 0 the min-X edge. See GlyphOpen/GlyphWall/GlyphCover.
func ParseGrid(rows []string, cellSize float64, origin model.Vec3) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("parsing grid: no rows")
	}
	width := len(rows[0])
	g := NewGrid(width, len(rows), cellSize, origin)

	for cz, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("parsing grid: row %d has %d cells, want %d", cz, len(row), width)
		}
		for cx := 0; cx < width; cx++ {
			switch row[cx] {
			case GlyphOpen:
			case GlyphWall:
				g.SetObstacle(cx, cz, WallHeight)
			case GlyphCover:
				g.SetObstacle(cx, cz, CoverHeight)
			default:
				return nil, fmt.Errorf("parsing grid: row %d col %d: unknown glyph %q", cz, cx, row[cx])
			}
		}
	}
	return g, nil
}

// CellSize returns the cell edge length in world units.
func (g *Grid) CellSize() float64 { return g.cellSize }

// Size returns grid dimensions in cells.
func (g *Grid) Size() (width, depth int) { return g.width, g.depth }

// Bounds returns world-space min and max corners (Y = 0).
func (g *Grid) Bounds() (lo, hi model.Vec3) {
	lo = model.V(g.originX, 0, g.originZ)
	hi = model.V(g.originX+float64(g.width)*g.cellSize, 0, g.originZ+float64(g.depth)*g.cellSize)
	return lo, hi
}

// CellOf returns the cell containing p. ok is false outside the grid.
func (g *Grid) CellOf(p model.Vec3) (cx, cz int, ok bool) {
	cx = int(math.Floor((p.X - g.originX) / g.cellSize))
	cz = int(math.Floor((p.Z - g.originZ) / g.cellSize))
	return cx, cz, g.InBounds(cx, cz)
}

// CellCenter returns the world position of the center of a cell at floor level.
func (g *Grid) CellCenter(cx, cz int) model.Vec3 {
	return model.V(
		g.originX+(float64(cx)+0.5)*g.cellSize,
		0,
		g.originZ+(float64(cz)+0.5)*g.cellSize,
	)
}

// InBounds reports whether the cell index is inside the grid.
func (g *Grid) InBounds(cx, cz int) bool {
	return cx >= 0 && cz >= 0 && cx < g.width && cz < g.depth
}

// SetObstacle sets obstacle height for a cell. Out-of-range cells are ignored.
func (g *Grid) SetObstacle(cx, cz int, height float64) {
	if !g.InBounds(cx, cz) {
		return
	}
	g.heights[cz*g.width+cx] = max(height, 0)
}

// Height returns obstacle height of a cell; out-of-range cells are open.
func (g *Grid) Height(cx, cz int) float64 {
	if !g.InBounds(cx, cz) {
		return 0
	}
	return g.heights[cz*g.width+cx]
}

// CellWalkable reports whether a cell is inside the grid and free of obstacles.
func (g *Grid) CellWalkable(cx, cz int) bool {
	return g.InBounds(cx, cz) && g.heights[cz*g.width+cx] == 0
}

// Walkable reports whether p stands on open floor inside the grid.
func (g *Grid) Walkable(p model.Vec3) bool {
	cx, cz, ok := g.CellOf(p)
	return ok && g.CellWalkable(cx, cz)
}
