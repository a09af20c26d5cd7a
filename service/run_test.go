package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	dmn "github.com/beka-birhanu/rover-mapper/domain"
	"github.com/beka-birhanu/rover-mapper/explore"
	"github.com/beka-birhanu/rover-mapper/maze"
	"github.com/beka-birhanu/rover-mapper/sim"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryArchive struct {
	saved []*dmn.Run
}

func (m *memoryArchive) Save(run *dmn.Run) error {
	m.saved = append(m.saved, run)
	return nil
}

func (m *memoryArchive) ByID(id uuid.UUID) (*dmn.Run, error) {
	for _, run := range m.saved {
		if run.ID == id {
			return run, nil
		}
	}
	return nil, os.ErrNotExist
}

func (m *memoryArchive) Latest() (*dmn.Run, error) {
	if len(m.saved) == 0 {
		return nil, os.ErrNotExist
	}
	return m.saved[len(m.saved)-1], nil
}

type memoryTelemetry struct {
	acquired int
	released int
	events   []explore.StepEvent
}

func (m *memoryTelemetry) AcquireRobot(ctx context.Context, runID uuid.UUID) error {
	m.acquired++
	return nil
}

func (m *memoryTelemetry) ReleaseRobot(ctx context.Context) error {
	m.released++
	return nil
}

func (m *memoryTelemetry) PublishStep(ctx context.Context, runID uuid.UUID, ev explore.StepEvent) error {
	m.events = append(m.events, ev)
	return nil
}

func testRunConfig(t *testing.T) RunConfig {
	t.Helper()
	return RunConfig{
		Bounds:          maze.Rect{MinX: -1, MaxX: 1, MinY: -1, MaxY: 1},
		Start:           maze.Position{},
		Heading:         maze.North,
		WallThresholdCm: 50,
		MaxNodes:        49,
		Priority:        []maze.Relative{maze.Left, maze.Front, maze.Right, maze.Back},
		EnableCaching:   true,
		ExportPath:      filepath.Join(t.TempDir(), "maze_map.json"),
	}
}

func TestRunnerExecute(t *testing.T) {
	newHardware := func(cfg RunConfig) *sim.Robot {
		return sim.NewRobot(sim.NewPerfectWorld(cfg.Bounds, 42), cfg.Start)
	}

	t.Run("maps the world and exports the document", func(t *testing.T) {
		cfg := testRunConfig(t)
		archive := &memoryArchive{}
		telemetry := &memoryTelemetry{}
		runner := NewRunner(cfg, archive, telemetry, testLogger())
		robot := newHardware(cfg)

		run, err := runner.Execute(context.Background(), robot, robot)
		assert.NoError(t, err)
		assert.NotNil(t, run)

		assert.Equal(t, 9, run.NodesExplored)
		assert.False(t, run.Interrupted)
		assert.Len(t, run.Document.Nodes, 9)
		assert.False(t, run.FinishedAt.Before(run.StartedAt))

		_, err = os.Stat(cfg.ExportPath)
		assert.NoError(t, err)
	})

	t.Run("retains the latest run for the dashboard", func(t *testing.T) {
		cfg := testRunConfig(t)
		runner := NewRunner(cfg, nil, nil, testLogger())
		robot := newHardware(cfg)

		assert.Nil(t, runner.Latest())
		run, err := runner.Execute(context.Background(), robot, robot)
		assert.NoError(t, err)
		assert.Equal(t, run, runner.Latest())
	})

	t.Run("archives the run record", func(t *testing.T) {
		cfg := testRunConfig(t)
		archive := &memoryArchive{}
		runner := NewRunner(cfg, archive, nil, testLogger())
		robot := newHardware(cfg)

		run, err := runner.Execute(context.Background(), robot, robot)
		assert.NoError(t, err)

		assert.Len(t, archive.saved, 1)
		stored, err := archive.ByID(run.ID)
		assert.NoError(t, err)
		assert.Equal(t, run, stored)
	})

	t.Run("locks the robot and streams step events", func(t *testing.T) {
		cfg := testRunConfig(t)
		telemetry := &memoryTelemetry{}
		runner := NewRunner(cfg, nil, telemetry, testLogger())
		robot := newHardware(cfg)

		_, err := runner.Execute(context.Background(), robot, robot)
		assert.NoError(t, err)

		assert.Equal(t, 1, telemetry.acquired)
		assert.Equal(t, 1, telemetry.released)
		assert.NotEmpty(t, telemetry.events)
		assert.Equal(t, explore.Done, telemetry.events[len(telemetry.events)-1].State)
	})

	t.Run("cancelled run still exports a partial map", func(t *testing.T) {
		cfg := testRunConfig(t)
		runner := NewRunner(cfg, nil, nil, testLogger())
		robot := newHardware(cfg)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		run, err := runner.Execute(ctx, robot, robot)
		assert.NoError(t, err)

		assert.True(t, run.Interrupted)
		assert.Equal(t, 1, run.NodesExplored)
		_, err = os.Stat(cfg.ExportPath)
		assert.NoError(t, err)
	})
}
