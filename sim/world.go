/*
Package sim provides a simulated maze environment so the mapping
engine can be exercised end to end without the physical vehicle.

The World is generated with Wilson's algorithm over the configured
boundary rectangle, producing a perfect maze in which every cell is
reachable. The Robot drives that world and implements the explorer's
sensor and chassis collaborators.
*/
package sim

import (
	"math/rand"
	"strings"

	"github.com/beka-birhanu/rover-mapper/maze"
)

// World is the ground-truth maze the simulated robot drives through.
// Walls here are definite booleans; the tri-state knowledge model
// belongs to the mapping engine, not to the world.
type World struct {
	bounds maze.Rect
	walls  map[maze.Position]*[4]bool // true = wall present
	rng    *rand.Rand
}

type carveStep struct {
	from maze.Position
	dir  maze.Direction
}

// newWalledWorld builds a world with every wall up.
func newWalledWorld(bounds maze.Rect) *World {
	w := &World{
		bounds: bounds,
		walls:  make(map[maze.Position]*[4]bool, bounds.CellCount()),
	}
	for y := bounds.MinY; y <= bounds.MaxY; y++ {
		for x := bounds.MinX; x <= bounds.MaxX; x++ {
			w.walls[maze.Position{X: x, Y: y}] = &[4]bool{true, true, true, true}
		}
	}
	return w
}

// NewPerfectWorld generates a perfect maze over bounds with Wilson's
// algorithm. Identical seeds produce identical worlds.
func NewPerfectWorld(bounds maze.Rect, seed int64) *World {
	w := newWalledWorld(bounds)
	w.rng = rand.New(rand.NewSource(seed))
	w.carve()
	return w
}

// NewClosedWorld builds a world with every wall up. Combined with
// OpenEdge it lets a scenario shape an exact maze by hand.
func NewClosedWorld(bounds maze.Rect) *World {
	return newWalledWorld(bounds)
}

// NewOpenWorld builds a world in which every interior edge is open.
func NewOpenWorld(bounds maze.Rect) *World {
	w := newWalledWorld(bounds)
	for pos := range w.walls {
		for _, d := range maze.Directions {
			if w.bounds.Contains(pos.Step(d)) {
				w.openWall(pos, d)
			}
		}
	}
	return w
}

// Bounds returns the world's rectangle.
func (w *World) Bounds() maze.Rect {
	return w.bounds
}

// Open reports whether the edge leaving pos in d is passable.
func (w *World) Open(pos maze.Position, d maze.Direction) bool {
	target := pos.Step(d)
	if !w.bounds.Contains(pos) || !w.bounds.Contains(target) {
		return false
	}
	return !w.walls[pos][d]
}

// OpenEdge removes the wall between pos and its neighbor in d, on both
// sides of the shared edge.
func (w *World) OpenEdge(pos maze.Position, d maze.Direction) {
	w.openWall(pos, d)
}

// openWall removes the wall between two adjacent cells, on both sides
// of the shared edge.
func (w *World) openWall(from maze.Position, d maze.Direction) {
	target := from.Step(d)
	if !w.bounds.Contains(from) || !w.bounds.Contains(target) {
		return
	}
	w.walls[from][d] = false
	w.walls[target][d.Opposite()] = false
}

func (w *World) randomPosition() maze.Position {
	return maze.Position{
		X: w.bounds.MinX + w.rng.Intn(w.bounds.Width()),
		Y: w.bounds.MinY + w.rng.Intn(w.bounds.Height()),
	}
}

func (w *World) randomUnvisited(visited map[maze.Position]struct{}) maze.Position {
	for {
		pos := w.randomPosition()
		if _, included := visited[pos]; !included {
			return pos
		}
	}
}

// neighborSteps finds all in-bounds moves from pos, in canonical
// direction order.
func (w *World) neighborSteps(pos maze.Position) []carveStep {
	var result []carveStep
	for _, d := range maze.Directions {
		if w.bounds.Contains(pos.Step(d)) {
			result = append(result, carveStep{from: pos, dir: d})
		}
	}
	return result
}

// randomWalk performs a random walk from an unvisited cell until it
// hits the visited set, keeping only the last move out of each cell.
func (w *World) randomWalk(visited map[maze.Position]struct{}) map[maze.Position]carveStep {
	cell := w.randomUnvisited(visited)
	visits := make(map[maze.Position]carveStep)

	for {
		steps := w.neighborSteps(cell)
		next := steps[w.rng.Intn(len(steps))]
		visits[cell] = next
		if _, included := visited[next.from.Step(next.dir)]; included {
			break
		}
		cell = next.from.Step(next.dir)
	}
	return visits
}

// carve runs Wilson's algorithm until every cell joins the maze.
func (w *World) carve() {
	visited := make(map[maze.Position]struct{})
	visited[w.randomPosition()] = struct{}{}

	for len(visited) < w.bounds.CellCount() {
		for cell, step := range w.randomWalk(visited) {
			w.openWall(step.from, step.dir)
			visited[cell] = struct{}{}
		}
	}
}

// String renders the world as ASCII art, top row first (north is +y).
func (w *World) String() string {
	var output strings.Builder

	output.WriteString("+" + strings.Repeat("---+", w.bounds.Width()) + "\n")

	for y := w.bounds.MaxY; y >= w.bounds.MinY; y-- {
		cellRow := "|"
		wallRow := "+"
		for x := w.bounds.MinX; x <= w.bounds.MaxX; x++ {
			walls := w.walls[maze.Position{X: x, Y: y}]

			cellRow += "   "
			if walls[maze.East] {
				cellRow += "|"
			} else {
				cellRow += " "
			}

			if walls[maze.South] {
				wallRow += "---+"
			} else {
				wallRow += "   +"
			}
		}
		output.WriteString(cellRow + "\n")
		output.WriteString(wallRow + "\n")
	}

	return output.String()
}
