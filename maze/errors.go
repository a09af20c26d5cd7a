package maze

import "errors"

// Graph-related errors.
var (
	// ErrConflictingWallReading is returned by RecordWall when a
	// reading contradicts an already resolved wall. The stored value is
	// kept; the caller logs and continues.
	ErrConflictingWallReading = errors.New("maze: wall reading conflicts with resolved state")

	// ErrOutOfBounds is returned for operations addressing a position
	// outside the exploration rectangle.
	ErrOutOfBounds = errors.New("maze: position outside the exploration boundary")

	// ErrInvalidBounds is returned when a boundary rectangle has a min
	// greater than its max.
	ErrInvalidBounds = errors.New("maze: boundary min exceeds max")
)

// WallConflict is the diagnostic record of one contradicted re-read.
// The graph keeps the first-writer value and accumulates these for the
// snapshot.
type WallConflict struct {
	Pos      Position
	Dir      Direction
	Kept     WallState
	Rejected WallState
}
