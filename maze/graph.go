/*
Package maze implements the incremental map a rover builds while
driving through an unknown grid maze.

The package defines the GridGraph: the authoritative store of
discovered cells, their tri-state wall knowledge and visit metadata,
bounded by a fixed exploration rectangle. Every mutation goes through
the graph so the wall-symmetry and first-writer-wins invariants hold
no matter which collaborator produced the reading. A Snapshot of the
graph is well-formed and exportable at any step boundary.
*/
package maze

import "sort"

// GridGraph owns the set of discovered cells for one exploration run.
// It is not safe for concurrent use; the run loop owns it exclusively.
type GridGraph struct {
	bounds    Rect
	cells     map[Position]*Cell
	path      []Position
	conflicts []WallConflict
}

// NewGridGraph creates an empty graph bounded by the given rectangle.
func NewGridGraph(bounds Rect) (*GridGraph, error) {
	if bounds.MinX > bounds.MaxX || bounds.MinY > bounds.MaxY {
		return nil, ErrInvalidBounds
	}
	return &GridGraph{
		bounds: bounds,
		cells:  make(map[Position]*Cell),
	}, nil
}

// BoundaryRect returns the exploration rectangle fixed at construction.
func (g *GridGraph) BoundaryRect() Rect {
	return g.bounds
}

// Cell returns the discovered cell at pos, if any.
func (g *GridGraph) Cell(pos Position) (*Cell, bool) {
	c, ok := g.cells[pos]
	return c, ok
}

// CellCount returns the number of discovered cells.
func (g *GridGraph) CellCount() int {
	return len(g.cells)
}

// GetOrCreateCell returns the existing cell at pos or creates a fresh
// one with all walls unknown. It returns nil for positions outside the
// boundary rectangle: the graph never materializes out-of-rect cells,
// out-of-bounds knowledge lives on the in-bounds side of the edge.
func (g *GridGraph) GetOrCreateCell(pos Position) *Cell {
	if !g.bounds.Contains(pos) {
		return nil
	}
	if c, ok := g.cells[pos]; ok {
		return c
	}
	c := newCell(pos)
	g.cells[pos] = c
	return c
}

// RecordWall writes one sensor verdict for the edge leaving pos in d
// and mirrors it onto the neighbor cell, creating the neighbor if
// needed, so wall symmetry holds across the shared edge. A direction
// whose target lies outside the rectangle is recorded out-of-bounds
// regardless of the reading.
//
// Re-reads that confirm the stored value are no-ops. A re-read that
// contradicts a resolved value keeps the original, appends a
// WallConflict diagnostic and returns ErrConflictingWallReading.
func (g *GridGraph) RecordWall(pos Position, d Direction, isWall bool) error {
	c := g.GetOrCreateCell(pos)
	if c == nil {
		return ErrOutOfBounds
	}

	target := pos.Step(d)
	if !g.bounds.Contains(target) {
		if c.walls[d] != WallOutOfBounds {
			c.walls[d] = WallOutOfBounds
			c.refresh()
		}
		return nil
	}

	state := WallOpen
	if isWall {
		state = WallBlocked
	}

	err := g.setWall(c, d, state)
	if mirrorErr := g.setWall(g.GetOrCreateCell(target), d.Opposite(), state); err == nil {
		err = mirrorErr
	}
	return err
}

// setWall applies first-writer-wins to a single side of an edge.
func (g *GridGraph) setWall(c *Cell, d Direction, state WallState) error {
	current := c.walls[d]
	if current == state || current == WallOutOfBounds {
		return nil
	}
	if current.Resolved() {
		g.conflicts = append(g.conflicts, WallConflict{
			Pos:      c.Pos,
			Dir:      d,
			Kept:     current,
			Rejected: state,
		})
		return ErrConflictingWallReading
	}
	c.walls[d] = state
	c.refresh()
	return nil
}

// MarkMoveBlocked force-closes an edge after a physical move failure.
// Unlike RecordWall it overrides a resolved open state, because the
// vehicle has proven the edge impassable and retrying the same move
// must be ruled out. The closure is mirrored onto an already known
// neighbor.
func (g *GridGraph) MarkMoveBlocked(pos Position, d Direction) {
	c, ok := g.cells[pos]
	if !ok {
		return
	}
	if c.walls[d] == WallBlocked || c.walls[d] == WallOutOfBounds {
		return
	}
	c.walls[d] = WallBlocked
	c.refresh()

	if n, ok := g.cells[pos.Step(d)]; ok {
		opp := d.Opposite()
		if n.walls[opp] != WallBlocked && n.walls[opp] != WallOutOfBounds {
			n.walls[opp] = WallBlocked
			n.refresh()
		}
	}
}

// MarkVisited records one occupation of pos: sets Visited, increments
// VisitCount, stamps the logical clock and appends pos to the
// chronological path. It returns the cell, or nil when pos is outside
// the rectangle.
func (g *GridGraph) MarkVisited(pos Position, seq uint64) *Cell {
	c := g.GetOrCreateCell(pos)
	if c == nil {
		return nil
	}
	c.Visited = true
	c.VisitCount++
	c.LastVisited = seq
	c.refresh()
	g.path = append(g.path, pos)
	return c
}

// UnexploredExits returns, in canonical direction order, the in-bounds
// directions of pos that are either not yet sensor-checked or resolved
// open toward a cell the robot has not occupied. The exploration
// policy applies its priority order over this candidate set.
func (g *GridGraph) UnexploredExits(pos Position) []Direction {
	c, ok := g.cells[pos]
	if !ok {
		return nil
	}
	var out []Direction
	for _, d := range Directions {
		target := pos.Step(d)
		if !g.bounds.Contains(target) {
			continue
		}
		switch c.walls[d] {
		case WallUnknown:
			out = append(out, d)
		case WallOpen:
			if n, known := g.cells[target]; !known || !n.Visited {
				out = append(out, d)
			}
		}
	}
	return out
}

// Neighbors returns, per direction, the adjacent in-bounds position.
// Directions leaving the rectangle are absent from the result.
func (g *GridGraph) Neighbors(pos Position) map[Direction]Position {
	out := make(map[Direction]Position, 4)
	for _, d := range Directions {
		target := pos.Step(d)
		if g.bounds.Contains(target) {
			out[d] = target
		}
	}
	return out
}

// Path returns a copy of the chronological robot path.
func (g *GridGraph) Path() []Position {
	out := make([]Position, len(g.path))
	copy(out, g.path)
	return out
}

// Conflicts returns a copy of the recorded wall-reading conflicts.
func (g *GridGraph) Conflicts() []WallConflict {
	out := make([]WallConflict, len(g.conflicts))
	copy(out, g.conflicts)
	return out
}

// sortedCells returns the discovered cells ordered row-major, so
// snapshots of identical runs are identical.
func (g *GridGraph) sortedCells() []*Cell {
	cells := make([]*Cell, 0, len(g.cells))
	for _, c := range g.cells {
		cells = append(cells, c)
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].Pos.Y != cells[j].Pos.Y {
			return cells[i].Pos.Y < cells[j].Pos.Y
		}
		return cells[i].Pos.X < cells[j].Pos.X
	})
	return cells
}
