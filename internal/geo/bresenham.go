package geo

// LineIterator steps through grid cells along a straight line
// using the integer Bresenham algorithm. Both endpoints are visited.
type LineIterator struct {
	currentX, currentZ int
	targetX, targetZ   int
	deltaX, deltaZ     int
	stepX, stepZ       int
	err                int
	started            bool
}

// NewLineIterator creates a Bresenham iterator from (sx,sz) to (ex,ez).
func NewLineIterator(sx, sz, ex, ez int) *LineIterator {
	it := &LineIterator{
		currentX: sx, currentZ: sz,
		targetX: ex, targetZ: ez,
		deltaX: absInt(ex - sx),
		deltaZ: -absInt(ez - sz),
		stepX:  1,
		stepZ:  1,
	}
	if sx > ex {
		it.stepX = -1
	}
	if sz > ez {
		it.stepZ = -1
	}
	it.err = it.deltaX + it.deltaZ
	return it
}

// Next advances to the next cell. Returns false once the target was visited.
func (it *LineIterator) Next() bool {
	if !it.started {
		it.started = true
		return true
	}
	if it.currentX == it.targetX && it.currentZ == it.targetZ {
		return false
	}

	e2 := 2 * it.err
	if e2 >= it.deltaZ {
		it.err += it.deltaZ
		it.currentX += it.stepX
	}
	if e2 <= it.deltaX {
		it.err += it.deltaX
		it.currentZ += it.stepZ
	}
	return true
}

// X returns the current cell X.
func (it *LineIterator) X() int { return it.currentX }

// Z returns the current cell Z.
func (it *LineIterator) Z() int { return it.currentZ }

// Steps returns the number of cells the line covers, including both ends.
func (it *LineIterator) Steps() int {
	return max(it.deltaX, -it.deltaZ) + 1
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
