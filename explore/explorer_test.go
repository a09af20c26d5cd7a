package explore

import (
	"context"
	"testing"

	"github.com/beka-birhanu/rover-mapper/maze"
	"github.com/beka-birhanu/rover-mapper/sim"
	"github.com/stretchr/testify/assert"
)

// absoluteMapping ranks exits east, north, west, south no matter which
// way the robot faces, so traversals in these tests are easy to trace
// by hand.
func absoluteMapping(_ maze.Direction, rel maze.Relative) maze.Direction {
	order := [4]maze.Direction{maze.East, maze.North, maze.West, maze.South}
	return order[rel]
}

func newRun(t *testing.T, bounds maze.Rect, world *sim.World, cfg Config) (*maze.GridGraph, *Explorer, *sim.Robot) {
	t.Helper()
	graph, err := maze.NewGridGraph(bounds)
	assert.NoError(t, err)

	robot := sim.NewRobot(world, cfg.Start)
	explorer, err := New(graph, robot, robot, cfg)
	assert.NoError(t, err)
	return graph, explorer, robot
}

func TestNewValidation(t *testing.T) {
	bounds := maze.Rect{MinX: 0, MaxX: 1, MinY: 0, MaxY: 1}
	graph, _ := maze.NewGridGraph(bounds)
	robot := sim.NewRobot(sim.NewOpenWorld(bounds), maze.Position{})
	valid := Config{WallThresholdCm: 50, MaxNodes: 4}

	t.Run("nil graph", func(t *testing.T) {
		_, err := New(nil, robot, robot, valid)
		assert.ErrorIs(t, err, ErrNilGraph)
	})

	t.Run("nil scanner", func(t *testing.T) {
		_, err := New(graph, nil, robot, valid)
		assert.ErrorIs(t, err, ErrNilScanner)
	})

	t.Run("nil chassis", func(t *testing.T) {
		_, err := New(graph, robot, nil, valid)
		assert.ErrorIs(t, err, ErrNilChassis)
	})

	t.Run("start outside the rectangle", func(t *testing.T) {
		cfg := valid
		cfg.Start = maze.Position{X: 9, Y: 9}
		_, err := New(graph, robot, robot, cfg)
		assert.ErrorIs(t, err, ErrStartOutOfBounds)
	})

	t.Run("non-positive threshold", func(t *testing.T) {
		cfg := valid
		cfg.WallThresholdCm = 0
		_, err := New(graph, robot, robot, cfg)
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})

	t.Run("non-positive budget", func(t *testing.T) {
		cfg := valid
		cfg.MaxNodes = 0
		_, err := New(graph, robot, robot, cfg)
		assert.ErrorIs(t, err, ErrInvalidBudget)
	})
}

func TestSingleCellRectangle(t *testing.T) {
	bounds := maze.Rect{}
	graph, explorer, _ := newRun(t, bounds, sim.NewOpenWorld(bounds), Config{
		WallThresholdCm: 50,
		MaxNodes:        49,
	})

	stats, err := explorer.Run(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, Done, explorer.State())
	assert.Equal(t, 1, stats.NodesExplored)
	// All four directions leave the rectangle; no sensor read happens.
	assert.Equal(t, 0, stats.PhysicalScans)
	assert.Equal(t, 0, stats.Backtracks)
	assert.False(t, stats.BudgetExhausted)

	cell, ok := graph.Cell(maze.Position{})
	assert.True(t, ok)
	assert.True(t, cell.FullyScanned)
	assert.True(t, cell.IsTrap)
	assert.Equal(t, []maze.Position{{}}, graph.Path())
}

func TestOpenRoomTraversal(t *testing.T) {
	bounds := maze.Rect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2}
	world := sim.NewOpenWorld(bounds)

	runOnce := func(caching bool) (*maze.GridGraph, Stats) {
		graph, explorer, _ := newRun(t, bounds, world, Config{
			WallThresholdCm: 50,
			MaxNodes:        49,
			Mapper:          absoluteMapping,
			EnableCaching:   caching,
		})
		stats, err := explorer.Run(context.Background())
		assert.NoError(t, err)
		return graph, stats
	}

	t.Run("covers every cell exactly once going forward", func(t *testing.T) {
		graph, stats := runOnce(true)

		assert.Equal(t, 9, stats.NodesExplored)
		assert.Equal(t, 9, graph.Snapshot().VisitedCount())
		assert.Equal(t, 8, stats.Backtracks)
		assert.Len(t, graph.Path(), 17)

		// East-first priority fixes the forward order.
		want := []maze.Position{
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0},
			{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 1, Y: 2},
			{X: 0, Y: 2}, {X: 0, Y: 1}, {X: 1, Y: 1},
		}
		assert.Equal(t, want, graph.Path()[:9])
	})

	t.Run("caching skips the center cell's re-scan", func(t *testing.T) {
		// The center is fully scanned through its neighbors' mirrored
		// readings before the robot ever enters it.
		_, cached := runOnce(true)
		assert.Equal(t, 8, cached.PhysicalScans)
		assert.Equal(t, 1, cached.CachedScans)

		_, uncached := runOnce(false)
		assert.Equal(t, 9, uncached.PhysicalScans)
		assert.Equal(t, 0, uncached.CachedScans)
	})

	t.Run("caching never changes the traversal", func(t *testing.T) {
		cachedGraph, _ := runOnce(true)
		uncachedGraph, _ := runOnce(false)
		assert.Equal(t, cachedGraph.Path(), uncachedGraph.Path())
	})
}

func TestPerfectMazeTraversal(t *testing.T) {
	bounds := maze.Rect{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1}
	world := sim.NewPerfectWorld(bounds, 42)

	runOnce := func() (*maze.GridGraph, Stats) {
		graph, explorer, _ := newRun(t, bounds, world, Config{
			Heading:         maze.North,
			WallThresholdCm: 50,
			MaxNodes:        49,
			Priority:        []maze.Relative{maze.Left, maze.Front, maze.Right, maze.Back},
			EnableCaching:   true,
		})
		stats, err := explorer.Run(context.Background())
		assert.NoError(t, err)
		return graph, stats
	}

	t.Run("maps the whole maze", func(t *testing.T) {
		graph, stats := runOnce()

		assert.Equal(t, 9, stats.NodesExplored)
		assert.False(t, stats.BudgetExhausted)
		assert.False(t, stats.Interrupted)

		snap := graph.Snapshot()
		assert.Equal(t, 9, snap.VisitedCount())
		for _, cell := range snap.Cells {
			assert.True(t, cell.FullyScanned, "cell %s", cell.Pos)
		}
	})

	t.Run("is deterministic across runs", func(t *testing.T) {
		firstGraph, firstStats := runOnce()
		secondGraph, secondStats := runOnce()

		assert.Equal(t, firstStats, secondStats)
		assert.Equal(t, firstGraph.Path(), secondGraph.Path())
	})
}

func TestBudgetExhaustion(t *testing.T) {
	bounds := maze.Rect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2}
	graph, explorer, _ := newRun(t, bounds, sim.NewOpenWorld(bounds), Config{
		WallThresholdCm: 50,
		MaxNodes:        3,
		Mapper:          absoluteMapping,
	})

	stats, err := explorer.Run(context.Background())
	assert.NoError(t, err)

	assert.True(t, stats.BudgetExhausted)
	assert.Equal(t, 3, stats.NodesExplored)
	// The budget is checked after the current cell's scan completes, so
	// the last cell is still fully recorded.
	last, ok := graph.Cell(maze.Position{X: 2, Y: 0})
	assert.True(t, ok)
	assert.True(t, last.FullyScanned)
	assert.Equal(t, []maze.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, graph.Path())
}

func TestMoveFailure(t *testing.T) {
	bounds := maze.Rect{MinX: 0, MaxX: 1, MinY: 0, MaxY: 0}
	world := sim.NewOpenWorld(bounds)
	graph, explorer, robot := newRun(t, bounds, world, Config{
		WallThresholdCm: 50,
		MaxNodes:        49,
		Mapper:          absoluteMapping,
	})
	robot.InjectMoveFailure(maze.Position{}, maze.East)

	stats, err := explorer.Run(context.Background())
	assert.NoError(t, err)

	assert.Equal(t, 1, stats.MoveFailures)
	assert.Equal(t, 1, stats.NodesExplored)

	// The failed edge is force-closed on both sides and the target is
	// never marked visited.
	start, _ := graph.Cell(maze.Position{})
	assert.Equal(t, maze.WallBlocked, start.Wall(maze.East))
	neighbor, ok := graph.Cell(maze.Position{X: 1, Y: 0})
	assert.True(t, ok)
	assert.Equal(t, maze.WallBlocked, neighbor.Wall(maze.West))
	assert.False(t, neighbor.Visited)
}

func TestBacktrackFailure(t *testing.T) {
	// Corridor (0,0)-(1,0)-(2,0) with a branch (1,0)-(1,1). The branch
	// is only reachable by reversing out of the (2,0) dead end, so a
	// mishandled reverse failure would abandon it.
	bounds := maze.Rect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 1}
	newWorld := func() *sim.World {
		w := sim.NewClosedWorld(bounds)
		w.OpenEdge(maze.Position{X: 0, Y: 0}, maze.East)
		w.OpenEdge(maze.Position{X: 1, Y: 0}, maze.East)
		w.OpenEdge(maze.Position{X: 1, Y: 0}, maze.North)
		return w
	}
	cfg := Config{
		WallThresholdCm: 50,
		MaxNodes:        49,
		Mapper:          absoluteMapping,
	}

	t.Run("slipped reverse is retried and the branch still mapped", func(t *testing.T) {
		graph, explorer, robot := newRun(t, bounds, newWorld(), cfg)
		robot.InjectMoveFailure(maze.Position{X: 2, Y: 0}, maze.West)

		stats, err := explorer.Run(context.Background())
		assert.NoError(t, err)

		assert.Equal(t, 1, stats.MoveFailures)
		assert.Equal(t, 4, stats.NodesExplored)
		assert.Equal(t, 3, stats.Backtracks)

		branch, ok := graph.Cell(maze.Position{X: 1, Y: 1})
		assert.True(t, ok)
		assert.True(t, branch.Visited)

		// The edge was proven open on the way in; the slip must not
		// close it.
		deadEnd, _ := graph.Cell(maze.Position{X: 2, Y: 0})
		assert.Equal(t, maze.WallOpen, deadEnd.Wall(maze.West))
	})

	t.Run("persistently failing reverse ends the run cleanly", func(t *testing.T) {
		graph, explorer, robot := newRun(t, bounds, newWorld(), cfg)
		for i := 0; i < 5; i++ {
			robot.InjectMoveFailure(maze.Position{X: 2, Y: 0}, maze.West)
		}

		stats, err := explorer.Run(context.Background())
		assert.NoError(t, err)

		assert.Equal(t, Done, explorer.State())
		assert.Equal(t, 3, stats.MoveFailures)
		assert.Equal(t, 0, stats.Backtracks)

		// The branch was discovered through mirrored readings but the
		// stranded robot never occupied it.
		branch, ok := graph.Cell(maze.Position{X: 1, Y: 1})
		assert.True(t, ok)
		assert.False(t, branch.Visited)
	})
}

func TestExactBudgetCompletion(t *testing.T) {
	// A budget equal to the rectangle's cell count completes the map
	// without forgoing any candidate.
	bounds := maze.Rect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2}
	graph, explorer, _ := newRun(t, bounds, sim.NewOpenWorld(bounds), Config{
		WallThresholdCm: 50,
		MaxNodes:        9,
		Mapper:          absoluteMapping,
	})

	stats, err := explorer.Run(context.Background())
	assert.NoError(t, err)

	assert.False(t, stats.BudgetExhausted)
	assert.Equal(t, 9, stats.NodesExplored)
	assert.Equal(t, 9, graph.Snapshot().VisitedCount())
}

func TestInterruption(t *testing.T) {
	bounds := maze.Rect{MinX: 0, MaxX: 2, MinY: 0, MaxY: 2}
	graph, explorer, _ := newRun(t, bounds, sim.NewOpenWorld(bounds), Config{
		WallThresholdCm: 50,
		MaxNodes:        49,
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stats, err := explorer.Run(ctx)
	assert.NoError(t, err)

	assert.True(t, stats.Interrupted)
	assert.Equal(t, Done, explorer.State())
	// The start occupation is still recorded; the graph stays exportable.
	assert.Equal(t, []maze.Position{{X: 0, Y: 0}}, graph.Path())
}

func TestObserverEvents(t *testing.T) {
	bounds := maze.Rect{}
	var events []StepEvent
	graph, err := maze.NewGridGraph(bounds)
	assert.NoError(t, err)
	robot := sim.NewRobot(sim.NewOpenWorld(bounds), maze.Position{})

	explorer, err := New(graph, robot, robot, Config{
		WallThresholdCm: 50,
		MaxNodes:        49,
		Observer:        func(ev StepEvent) { events = append(events, ev) },
	})
	assert.NoError(t, err)

	_, err = explorer.Run(context.Background())
	assert.NoError(t, err)

	// Scanning, Choosing, Done.
	assert.Len(t, events, 3)
	assert.Equal(t, Scanning, events[0].State)
	assert.Equal(t, Done, events[len(events)-1].State)
	for _, ev := range events {
		assert.Equal(t, maze.Position{}, ev.Position)
	}
}
