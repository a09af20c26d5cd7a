// Package i declares the hardware collaborators the explorer drives.
// The engine never performs physical measurement or actuation itself;
// implementations live in the sim package or in a vehicle adapter.
package i

import (
	"context"

	"github.com/beka-birhanu/rover-mapper/maze"
)

// RangeScanner reads the distance, in centimeters, from the robot's
// current cell to the nearest obstacle in an absolute direction.
// Mapping the absolute direction onto gimbal angles is the
// implementation's concern.
type RangeScanner interface {
	Distance(ctx context.Context, d maze.Direction) (float64, error)
}

// Chassis drives the robot between adjacent cells. Both calls block
// until the move completes and return the resulting position; a
// non-nil error reports a move that did not complete physically.
type Chassis interface {
	// Forward drives one cell in d, turning to face d first.
	Forward(ctx context.Context, from maze.Position, d maze.Direction) (maze.Position, error)

	// Reverse backs the robot one cell into d without rotating, the
	// maneuver used for backtracking and for leaving dead ends.
	Reverse(ctx context.Context, from maze.Position, d maze.Direction) (maze.Position, error)
}
