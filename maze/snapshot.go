package maze

// Snapshot is a read-only copy of the full graph state at one step
// boundary. It is the sole interface consumed by export and the
// dashboard; mutating the live graph after taking a snapshot does not
// affect it.
type Snapshot struct {
	Bounds    Rect
	Cells     []CellSnapshot
	Path      []Position
	Conflicts []WallConflict

	index map[Position]int
}

// CellSnapshot is the exported view of one cell, with the direction
// classifications precomputed so consumers never re-derive engine
// rules.
type CellSnapshot struct {
	Pos          Position
	Walls        [4]WallState
	Visited      bool
	VisitCount   int
	FullyScanned bool
	LastVisited  uint64
	IsDeadEnd    bool
	IsTrap       bool

	// Explored lists directions with a resolved sensor verdict.
	Explored []Direction
	// Unexplored lists candidate exits by the same rule the policy
	// uses (unknown, or open toward an unvisited cell; in-bounds only).
	Unexplored []Direction
	// OutOfBounds lists directions leaving the rectangle.
	OutOfBounds []Direction
	// Neighbors maps each direction to the adjacent discovered cell.
	Neighbors map[Direction]Position
}

// Wall returns the recorded state for d.
func (c CellSnapshot) Wall(d Direction) WallState {
	return c.Walls[d]
}

// Snapshot builds a read-only view of all cells, walls, path history
// and boundaries. Cells are ordered row-major for determinism.
func (g *GridGraph) Snapshot() *Snapshot {
	snap := &Snapshot{
		Bounds:    g.bounds,
		Cells:     make([]CellSnapshot, 0, len(g.cells)),
		Path:      g.Path(),
		Conflicts: g.Conflicts(),
		index:     make(map[Position]int, len(g.cells)),
	}

	for _, c := range g.sortedCells() {
		cs := CellSnapshot{
			Pos:          c.Pos,
			Walls:        c.walls,
			Visited:      c.Visited,
			VisitCount:   c.VisitCount,
			FullyScanned: c.FullyScanned,
			LastVisited:  c.LastVisited,
			IsDeadEnd:    c.IsDeadEnd,
			IsTrap:       c.IsTrap,
			Unexplored:   g.UnexploredExits(c.Pos),
			Neighbors:    make(map[Direction]Position, 4),
		}
		for _, d := range Directions {
			if c.walls[d].Resolved() {
				cs.Explored = append(cs.Explored, d)
			}
			if c.walls[d] == WallOutOfBounds {
				cs.OutOfBounds = append(cs.OutOfBounds, d)
			}
			if _, known := g.cells[c.Pos.Step(d)]; known && g.bounds.Contains(c.Pos.Step(d)) {
				cs.Neighbors[d] = c.Pos.Step(d)
			}
		}
		snap.index[c.Pos] = len(snap.Cells)
		snap.Cells = append(snap.Cells, cs)
	}
	return snap
}

// CellAt returns the snapshot of the cell at pos, if it was discovered.
func (s *Snapshot) CellAt(pos Position) (CellSnapshot, bool) {
	i, ok := s.index[pos]
	if !ok {
		return CellSnapshot{}, false
	}
	return s.Cells[i], true
}

// VisitedCount returns the number of distinct visited cells.
func (s *Snapshot) VisitedCount() int {
	n := 0
	for _, c := range s.Cells {
		if c.Visited {
			n++
		}
	}
	return n
}
