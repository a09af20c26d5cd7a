/*
Package explore implements the exploration policy that drives a rover
through an unknown maze one cell at a time.

At every step the explorer scans the current cell through the
RangeScanner, writes the verdicts into the GridGraph, picks the next
direction by a configurable relative-direction priority, and issues
moves through the Chassis. When a cell offers no unexplored exit the
explorer reverses along its visit stack until one appears or the stack
empties. The traversal is strictly sequential and deterministic: two
runs over identical sensor data and configuration produce identical
graphs and paths.
*/
package explore

import (
	"context"
	"errors"

	"github.com/beka-birhanu/rover-mapper/explore/i"
	"github.com/beka-birhanu/rover-mapper/maze"
	"github.com/rs/zerolog"
)

// Configuration errors.
var (
	ErrNilGraph         = errors.New("explore: grid graph is required")
	ErrNilScanner       = errors.New("explore: range scanner is required")
	ErrNilChassis       = errors.New("explore: chassis is required")
	ErrStartOutOfBounds = errors.New("explore: start position outside the boundary")
	ErrInvalidThreshold = errors.New("explore: wall threshold must be positive")
	ErrInvalidBudget    = errors.New("explore: max nodes must be positive")
)

// StepEvent describes one state transition, for telemetry observers.
type StepEvent struct {
	Seq           uint64
	State         State
	Position      maze.Position
	NodesExplored int
}

// Config carries the run configuration supplied once at start.
type Config struct {
	// Start is the robot's initial cell; it must lie inside the
	// graph's boundary rectangle.
	Start maze.Position
	// Heading is the robot's initial absolute heading.
	Heading maze.Direction
	// WallThresholdCm is the sensor cutoff: a reading at or below it
	// means a wall.
	WallThresholdCm float64
	// MaxNodes bounds the number of distinct cells to explore.
	MaxNodes int
	// Priority orders the relative directions tried when several exits
	// are valid. Missing relatives are appended in left, front, right,
	// back order so the priority is always a full permutation.
	Priority []maze.Relative
	// Mapper resolves relative directions against the heading.
	// Defaults to maze.CompassMapping.
	Mapper maze.HeadingMapper
	// EnableCaching skips physical re-scans of fully scanned cells.
	EnableCaching bool
	// Observer, when set, receives every state transition.
	Observer func(StepEvent)
	// Logger defaults to a no-op logger.
	Logger zerolog.Logger
}

// Explorer owns the state of one exploration run: current position,
// heading, the visit stack and the logical clock. It is not safe for
// concurrent use.
type Explorer struct {
	graph   *maze.GridGraph
	scanner i.RangeScanner
	chassis i.Chassis
	cfg     Config
	log     zerolog.Logger

	state          State
	pos            maze.Position
	heading        maze.Direction
	pending        maze.Direction
	stack          []maze.Position
	seq            uint64
	priority       []maze.Relative
	reverseRetries int
	stats          Stats
}

// maxReverseRetries bounds consecutive failed reverse maneuvers before
// the run is abandoned as physically stuck.
const maxReverseRetries = 3

// New validates the configuration and builds an explorer bound to one
// graph and one set of hardware collaborators.
func New(g *maze.GridGraph, scanner i.RangeScanner, chassis i.Chassis, cfg Config) (*Explorer, error) {
	if g == nil {
		return nil, ErrNilGraph
	}
	if scanner == nil {
		return nil, ErrNilScanner
	}
	if chassis == nil {
		return nil, ErrNilChassis
	}
	if !g.BoundaryRect().Contains(cfg.Start) {
		return nil, ErrStartOutOfBounds
	}
	if cfg.WallThresholdCm <= 0 {
		return nil, ErrInvalidThreshold
	}
	if cfg.MaxNodes <= 0 {
		return nil, ErrInvalidBudget
	}
	if cfg.Mapper == nil {
		cfg.Mapper = maze.CompassMapping
	}

	return &Explorer{
		graph:    g,
		scanner:  scanner,
		chassis:  chassis,
		cfg:      cfg,
		log:      cfg.Logger,
		pos:      cfg.Start,
		heading:  cfg.Heading,
		priority: normalizePriority(cfg.Priority),
	}, nil
}

// normalizePriority dedupes the configured order and appends missing
// relatives in canonical order.
func normalizePriority(order []maze.Relative) []maze.Relative {
	var seen [4]bool
	out := make([]maze.Relative, 0, 4)
	for _, r := range order {
		if int(r) < len(seen) && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	for _, r := range []maze.Relative{maze.Left, maze.Front, maze.Right, maze.Back} {
		if !seen[r] {
			out = append(out, r)
		}
	}
	return out
}

// State returns the current machine state.
func (e *Explorer) State() State { return e.state }

// Position returns the robot's current grid position.
func (e *Explorer) Position() maze.Position { return e.pos }

// Heading returns the robot's current absolute heading.
func (e *Explorer) Heading() maze.Direction { return e.heading }

// Stats returns the counters accumulated so far.
func (e *Explorer) Stats() Stats { return e.stats }

// Run executes the exploration loop until Done. It always leaves the
// graph in a consistent, exportable state: cancellation and collaborator
// failures end the run at a step boundary.
func (e *Explorer) Run(ctx context.Context) (Stats, error) {
	e.seq++
	if cell := e.graph.MarkVisited(e.pos, e.seq); cell != nil && cell.VisitCount == 1 {
		e.stats.NodesExplored++
	}
	e.setState(Scanning)

	for e.state != Done {
		if ctx.Err() != nil {
			e.stats.Interrupted = true
			e.setState(Done)
			break
		}

		var err error
		switch e.state {
		case Scanning:
			err = e.scan(ctx)
		case Choosing:
			e.choose()
		case Moving:
			err = e.move(ctx)
		case Backtracking:
			err = e.backtrack(ctx)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				e.stats.Interrupted = true
				e.setState(Done)
				break
			}
			e.setState(Done)
			return e.stats, err
		}
	}

	e.log.Info().
		Int("nodes", e.stats.NodesExplored).
		Int("physical_scans", e.stats.PhysicalScans).
		Int("cached_scans", e.stats.CachedScans).
		Int("backtracks", e.stats.Backtracks).
		Int("dead_end_reversals", e.stats.DeadEndReversals).
		Int("move_failures", e.stats.MoveFailures).
		Int("conflicts", e.stats.Conflicts).
		Bool("budget_exhausted", e.stats.BudgetExhausted).
		Bool("interrupted", e.stats.Interrupted).
		Msg("exploration finished")
	return e.stats, nil
}

// scan resolves the current cell's unknown directions. Directions
// already checked, by an earlier read or by a symmetric write from a
// neighbor, are not re-read unless the whole cell is being re-scanned
// with caching disabled.
func (e *Explorer) scan(ctx context.Context) error {
	cell := e.graph.GetOrCreateCell(e.pos)

	if cell.FullyScanned && e.cfg.EnableCaching {
		e.stats.CachedScans++
		e.setState(Choosing)
		return nil
	}
	rescan := cell.FullyScanned

	read := false
	for _, d := range maze.Directions {
		if !rescan && cell.Wall(d).Checked() {
			continue
		}
		if !e.graph.BoundaryRect().Contains(e.pos.Step(d)) {
			// No physical read needed: the boundary excludes the
			// direction regardless of what the sensor would say.
			_ = e.graph.RecordWall(e.pos, d, true)
			continue
		}

		dist, err := e.scanner.Distance(ctx, d)
		if err != nil {
			return err
		}
		read = true
		isWall := dist > 0 && dist <= e.cfg.WallThresholdCm

		if err := e.graph.RecordWall(e.pos, d, isWall); errors.Is(err, maze.ErrConflictingWallReading) {
			e.stats.Conflicts++
			e.log.Warn().
				Stringer("pos", e.pos).
				Stringer("dir", d).
				Bool("rejected_wall", isWall).
				Msg("conflicting wall reading, keeping resolved state")
		}
	}
	if read {
		e.stats.PhysicalScans++
	}
	e.setState(Choosing)
	return nil
}

// choose picks the next exit by priority, or falls back to
// backtracking, or terminates.
func (e *Explorer) choose() {
	exits := e.graph.UnexploredExits(e.pos)
	if len(exits) > 0 {
		// The budget counts forgone candidates: a map that simply
		// completes at MaxNodes is not an exhausted run.
		if e.stats.NodesExplored >= e.cfg.MaxNodes {
			e.stats.BudgetExhausted = true
			e.setState(Done)
			return
		}
		for _, rel := range e.priority {
			abs := e.cfg.Mapper(e.heading, rel)
			if containsDirection(exits, abs) {
				e.pending = abs
				e.setState(Moving)
				return
			}
		}
		// A mapper that is not a permutation can leave exits unranked.
		e.pending = exits[0]
		e.setState(Moving)
		return
	}

	if len(e.stack) == 0 {
		e.setState(Done)
		return
	}
	if cell, ok := e.graph.Cell(e.pos); ok && cell.IsDeadEnd {
		e.stats.DeadEndReversals++
	}
	e.setState(Backtracking)
}

// move drives one cell in the pending direction. A physical failure
// force-closes the attempted edge and re-enters Choosing without
// marking the target visited.
func (e *Explorer) move(ctx context.Context) error {
	expected := e.pos.Step(e.pending)

	got, err := e.chassis.Forward(ctx, e.pos, e.pending)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		e.stats.MoveFailures++
		e.graph.MarkMoveBlocked(e.pos, e.pending)
		e.log.Warn().
			Stringer("from", e.pos).
			Stringer("dir", e.pending).
			Err(err).
			Msg("move failed, edge closed")
		e.setState(Choosing)
		return nil
	}

	e.stack = append(e.stack, e.pos)
	if got != expected {
		e.log.Warn().
			Stringer("expected", expected).
			Stringer("reported", got).
			Msg("chassis reported unexpected position")
	}
	e.pos = got
	e.heading = e.pending

	e.seq++
	if cell := e.graph.MarkVisited(e.pos, e.seq); cell != nil && cell.VisitCount == 1 {
		e.stats.NodesExplored++
	}
	e.setState(Scanning)
	return nil
}

// backtrack reverses one cell toward the most recent stack entry and
// re-enters Choosing once a cell with unexplored exits is reached or
// the stack empties. The entry is popped only after the reverse
// completes: a failed maneuver keeps the return target on the stack
// and is retried, because the edge was proven open on the way in and
// closing it would strand every cell still hanging off the stack.
func (e *Explorer) backtrack(ctx context.Context) error {
	prev := e.stack[len(e.stack)-1]

	dir, ok := directionTo(e.pos, prev)
	if !ok {
		e.setState(Done)
		return nil
	}

	got, err := e.chassis.Reverse(ctx, e.pos, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		e.stats.MoveFailures++
		e.reverseRetries++
		if e.reverseRetries >= maxReverseRetries {
			e.log.Error().
				Stringer("from", e.pos).
				Stringer("dir", dir).
				Err(err).
				Msg("backtrack keeps failing, ending run")
			e.setState(Done)
			return nil
		}
		e.log.Warn().
			Stringer("from", e.pos).
			Stringer("dir", dir).
			Err(err).
			Msg("backtrack move failed, retrying")
		return nil
	}
	e.reverseRetries = 0
	e.stack = e.stack[:len(e.stack)-1]

	e.pos = got
	e.seq++
	e.graph.MarkVisited(e.pos, e.seq)
	e.stats.Backtracks++

	if len(e.graph.UnexploredExits(e.pos)) > 0 || len(e.stack) == 0 {
		e.setState(Choosing)
	}
	return nil
}

func (e *Explorer) setState(s State) {
	e.state = s
	if e.cfg.Observer != nil {
		e.cfg.Observer(StepEvent{
			Seq:           e.seq,
			State:         s,
			Position:      e.pos,
			NodesExplored: e.stats.NodesExplored,
		})
	}
	e.log.Debug().
		Stringer("state", s).
		Stringer("pos", e.pos).
		Stringer("heading", e.heading).
		Msg("state transition")
}

func containsDirection(dirs []maze.Direction, d maze.Direction) bool {
	for _, c := range dirs {
		if c == d {
			return true
		}
	}
	return false
}

// directionTo finds the direction of an adjacent target cell.
func directionTo(from, to maze.Position) (maze.Direction, bool) {
	for _, d := range maze.Directions {
		if from.Step(d) == to {
			return d, true
		}
	}
	return maze.North, false
}
