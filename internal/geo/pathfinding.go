package geo

import (
	"container/heap"
	"math"

	"github.com/udisondev/horde/internal/model"
)

// FindPath finds a walkable path between two world positions using A* over grid cells.
// Returns waypoints (cell centers, the last one replaced by the exact goal) or nil
// if no path exists within MaxPathfindIterations.
func (g *Grid) FindPath(from, to model.Vec3) []model.Vec3 {
	sx, sz, ok := g.CellOf(from)
	if !ok {
		return nil
	}
	ex, ez, ok := g.CellOf(to)
	if !ok || !g.CellWalkable(ex, ez) {
		return nil
	}

	// Same cell or clear straight line: direct path
	if (sx == ex && sz == ez) || g.CanMoveToTarget(from, to) {
		return []model.Vec3{to}
	}

	result := g.astar(sx, sz, ex, ez)
	if result == nil {
		return nil
	}

	path := make([]model.Vec3, 0, 32)
	for n := result; n != nil; n = n.parent {
		path = append(path, g.CellCenter(n.x, n.z))
	}

	// Reverse (A* builds path backward)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	path[len(path)-1] = to
	// Drop the start cell; the walker is already in it.
	path = path[1:]

	return g.smoothPath(from, path)
}

// smoothPath removes intermediate waypoints that can be skipped by walking straight.
func (g *Grid) smoothPath(from model.Vec3, path []model.Vec3) []model.Vec3 {
	if len(path) <= 1 {
		return path
	}

	smoothed := make([]model.Vec3, 0, len(path))
	anchor := from
	for i := 0; i < len(path)-1; i++ {
		if g.CanMoveToTarget(anchor, path[i+1]) {
			continue
		}
		smoothed = append(smoothed, path[i])
		anchor = path[i]
	}
	return append(smoothed, path[len(path)-1])
}

// gridNode is a node in the A* search graph.
type gridNode struct {
	x, z   int
	parent *gridNode
	gCost  float64
	fCost  float64
	index  int
}

type nodeKey struct {
	x, z int
}

func (g *Grid) astar(sx, sz, tx, tz int) *gridNode {
	start := &gridNode{x: sx, z: sz}
	start.fCost = heuristic(sx, sz, tx, tz)

	open := &nodeHeap{}
	heap.Init(open)
	heap.Push(open, start)

	closed := make(map[nodeKey]struct{}, 256)

	for range MaxPathfindIterations {
		if open.Len() == 0 {
			return nil
		}

		current := heap.Pop(open).(*gridNode)
		if current.x == tx && current.z == tz {
			return current
		}

		key := nodeKey{current.x, current.z}
		if _, seen := closed[key]; seen {
			continue
		}
		closed[key] = struct{}{}

		g.expandNeighbors(current, tx, tz, open, closed)
	}

	return nil // Max iterations exceeded
}

func (g *Grid) expandNeighbors(current *gridNode, tx, tz int, open *nodeHeap, closed map[nodeKey]struct{}) {
	dirs := [8]struct {
		dx, dz int
	}{
		{0, -1}, {1, 0}, {0, 1}, {-1, 0},
		{1, -1}, {1, 1}, {-1, 1}, {-1, -1},
	}

	for _, d := range dirs {
		nx, nz := current.x+d.dx, current.z+d.dz
		if !g.CellWalkable(nx, nz) {
			continue
		}
		if _, seen := closed[nodeKey{nx, nz}]; seen {
			continue
		}

		weight := WeightStraight
		if d.dx != 0 && d.dz != 0 {
			// Anti-corner-cut: both adjacent cardinals must be passable
			if !g.CellWalkable(current.x+d.dx, current.z) || !g.CellWalkable(current.x, current.z+d.dz) {
				continue
			}
			weight = WeightDiagonal
		}

		node := &gridNode{
			x: nx, z: nz,
			parent: current,
			gCost:  current.gCost + weight,
		}
		node.fCost = node.gCost + heuristic(nx, nz, tx, tz)
		heap.Push(open, node)
	}
}

// heuristic is the Euclidean distance in cells.
func heuristic(x, z, tx, tz int) float64 {
	dx := float64(x - tx)
	dz := float64(z - tz)
	return math.Sqrt(dx*dx + dz*dz)
}

// nodeHeap implements container/heap for the A* open list (min-heap by fCost).
type nodeHeap []*gridNode

func (h nodeHeap) Len() int           { return len(h) }
func (h nodeHeap) Less(i, j int) bool { return h[i].fCost < h[j].fCost }
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *nodeHeap) Push(x any)        { n := x.(*gridNode); n.index = len(*h); *h = append(*h, n) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := len(old)
	node := old[n-1]
	old[n-1] = nil // GC
	node.index = -1
	*h = old[:n-1]
	return node
}
