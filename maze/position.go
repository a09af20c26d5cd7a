package maze

import "fmt"

// Position identifies one grid cell by its integer coordinates.
type Position struct {
	X int
	Y int
}

// Step returns the adjacent position one cell away in d.
func (p Position) Step(d Direction) Position {
	dx, dy := d.Delta()
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// String renders the position as "x,y". The string form exists for
// logs and the serialization boundary only; all internal keying uses
// the struct itself.
func (p Position) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Rect is the inclusive legal exploration rectangle, fixed at run
// start.
type Rect struct {
	MinX int
	MaxX int
	MinY int
	MaxY int
}

// Contains reports whether p lies within the rectangle.
func (r Rect) Contains(p Position) bool {
	return p.X >= r.MinX && p.X <= r.MaxX && p.Y >= r.MinY && p.Y <= r.MaxY
}

// Width returns the number of columns covered by the rectangle.
func (r Rect) Width() int {
	return r.MaxX - r.MinX + 1
}

// Height returns the number of rows covered by the rectangle.
func (r Rect) Height() int {
	return r.MaxY - r.MinY + 1
}

// CellCount returns the total number of cells inside the rectangle.
func (r Rect) CellCount() int {
	return r.Width() * r.Height()
}
