package sim

import (
	"context"
	"errors"

	"github.com/beka-birhanu/rover-mapper/maze"
)

// ErrMoveBlocked is returned by the chassis when a commanded move
// cannot be completed.
var ErrMoveBlocked = errors.New("sim: move blocked by wall")

const (
	// defaultOpenCm is the range reading reported through an open edge.
	defaultOpenCm = 150.0
	// defaultWallCm is the range reading reported against a wall.
	defaultWallCm = 20.0
)

type edge struct {
	from maze.Position
	dir  maze.Direction
}

// Robot is the simulated vehicle. It satisfies the explorer's
// RangeScanner and Chassis interfaces against the ground-truth world.
type Robot struct {
	world    *World
	pos      maze.Position
	openCm   float64
	wallCm   float64
	failures map[edge]int
}

// NewRobot places a robot at start inside world.
func NewRobot(world *World, start maze.Position) *Robot {
	return &Robot{
		world:    world,
		pos:      start,
		openCm:   defaultOpenCm,
		wallCm:   defaultWallCm,
		failures: make(map[edge]int),
	}
}

// Position returns the robot's true grid position.
func (r *Robot) Position() maze.Position {
	return r.pos
}

// Distance reports the range reading from the robot's current cell in
// the given absolute direction.
func (r *Robot) Distance(ctx context.Context, d maze.Direction) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if r.world.Open(r.pos, d) {
		return r.openCm, nil
	}
	return r.wallCm, nil
}

// Forward drives the robot one cell in d.
func (r *Robot) Forward(ctx context.Context, from maze.Position, d maze.Direction) (maze.Position, error) {
	return r.move(ctx, d)
}

// Reverse backs the robot one cell into d without rotating. Movement
// semantics in the simulator are identical to Forward; the split
// mirrors the physical vehicle's reverse-backtrack maneuver.
func (r *Robot) Reverse(ctx context.Context, from maze.Position, d maze.Direction) (maze.Position, error) {
	return r.move(ctx, d)
}

func (r *Robot) move(ctx context.Context, d maze.Direction) (maze.Position, error) {
	if err := ctx.Err(); err != nil {
		return r.pos, err
	}
	e := edge{from: r.pos, dir: d}
	if r.failures[e] > 0 {
		r.failures[e]--
		return r.pos, ErrMoveBlocked
	}
	if !r.world.Open(r.pos, d) {
		return r.pos, ErrMoveBlocked
	}
	r.pos = r.pos.Step(d)
	return r.pos, nil
}

// InjectMoveFailure makes the next move across the given edge fail,
// simulating a slipped or obstructed drive.
func (r *Robot) InjectMoveFailure(from maze.Position, d maze.Direction) {
	r.failures[edge{from: from, dir: d}]++
}
