package maze

import "fmt"

// WallState classifies one cardinal direction at one cell. Unknown
// means the direction has never been sensor-checked; it must not be
// collapsed into a boolean before the export boundary, otherwise the
// "not yet scanned" distinction needed for exploration is lost.
type WallState uint8

const (
	// WallUnknown is the zero value: the direction was never checked.
	WallUnknown WallState = iota
	// WallOpen means the direction was checked and is passable.
	WallOpen
	// WallBlocked means the direction was checked and a wall is present.
	WallBlocked
	// WallOutOfBounds means the adjacent cell falls outside the
	// exploration rectangle. It wins over any sensor reading.
	WallOutOfBounds
)

var wallStateNames = [4]string{"unknown", "open", "blocked", "out_of_bounds"}

// String returns the lowercase state name.
func (w WallState) String() string {
	if int(w) >= len(wallStateNames) {
		return fmt.Sprintf("wallstate(%d)", uint8(w))
	}
	return wallStateNames[w]
}

// Resolved reports whether the state carries a definitive sensor
// verdict. Out-of-bounds directions are checked but carry no verdict,
// so they are not resolved.
func (w WallState) Resolved() bool {
	return w == WallOpen || w == WallBlocked
}

// Checked reports whether the direction no longer needs a sensor read.
func (w WallState) Checked() bool {
	return w != WallUnknown
}

// Cell is one grid position with wall and visitation metadata. Cells
// are created lazily by GridGraph and never deleted during a run; all
// mutation goes through GridGraph so the wall invariants hold.
type Cell struct {
	Pos Position

	walls [4]WallState

	// Visited is true once the robot has physically occupied the cell.
	Visited bool
	// VisitCount is incremented on every occupation, including
	// backtracking passes.
	VisitCount int
	// FullyScanned is true once all four directions have been checked.
	FullyScanned bool
	// LastVisited is the logical clock value of the most recent
	// occupation. It orders the path reconstruction; it is not
	// wall-clock time.
	LastVisited uint64
	// IsDeadEnd is true for a fully scanned cell with at most one open
	// in-bounds direction.
	IsDeadEnd bool
	// IsTrap flags the degenerate dead end with zero open directions.
	IsTrap bool
}

func newCell(pos Position) *Cell {
	return &Cell{Pos: pos}
}

// Wall returns the recorded state for d.
func (c *Cell) Wall(d Direction) WallState {
	return c.walls[d]
}

// OpenDirections returns the directions resolved open, in canonical
// order.
func (c *Cell) OpenDirections() []Direction {
	var out []Direction
	for _, d := range Directions {
		if c.walls[d] == WallOpen {
			out = append(out, d)
		}
	}
	return out
}

func (c *Cell) openCount() int {
	n := 0
	for _, s := range c.walls {
		if s == WallOpen {
			n++
		}
	}
	return n
}

// refresh recomputes the derived fields from the current wall state.
func (c *Cell) refresh() {
	checked := 0
	for _, s := range c.walls {
		if s.Checked() {
			checked++
		}
	}
	c.FullyScanned = checked == len(c.walls)

	open := c.openCount()
	c.IsDeadEnd = c.FullyScanned && open <= 1
	c.IsTrap = c.FullyScanned && open == 0
}
