package geo

// Cell glyphs accepted by ParseGrid.
const (
	GlyphOpen  = '.'
	GlyphWall  = '#'
	GlyphCover = 'x'
)

// Obstacle heights in world units.
const (
	WallHeight  = 3.0
	CoverHeight = 1.0
)

// Pathfinding configuration.
const (
	MaxPathfindIterations = 4000

	// A* weights.
	WeightStraight = 1.0
	WeightDiagonal = 1.41421356
)
