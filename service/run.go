// Package service orchestrates mapping expeditions: it wires the
// exploration engine to the hardware collaborators, exports the
// resulting map and hands the run record to persistence and telemetry.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/rover-mapper/domain"
	"github.com/beka-birhanu/rover-mapper/explore"
	explorehw "github.com/beka-birhanu/rover-mapper/explore/i"
	"github.com/beka-birhanu/rover-mapper/export"
	"github.com/beka-birhanu/rover-mapper/maze"
	"github.com/beka-birhanu/rover-mapper/service/i"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrRunInProgress is returned when Execute is called while another
// expedition is still running.
var ErrRunInProgress = errors.New("service: a mapping run is already in progress")

// RunConfig carries everything one expedition needs, supplied once at
// run start.
type RunConfig struct {
	Bounds          maze.Rect
	Start           maze.Position
	Heading         maze.Direction
	WallThresholdCm float64
	MaxNodes        int
	Priority        []maze.Relative
	EnableCaching   bool
	// ExportPath, when non-empty, is the JSON file the map is written
	// to after every run.
	ExportPath string
}

// Runner executes mapping expeditions and retains the latest result
// for the dashboard. Archive and telemetry are optional; a nil value
// disables the concern.
type Runner struct {
	cfg       RunConfig
	archive   i.RunArchive
	telemetry i.Telemetry
	logger    zerolog.Logger

	mu      sync.RWMutex
	running bool
	latest  *dmn.Run
}

// NewRunner builds a Runner for the given configuration.
func NewRunner(cfg RunConfig, archive i.RunArchive, telemetry i.Telemetry, logger zerolog.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		archive:   archive,
		telemetry: telemetry,
		logger:    logger,
	}
}

// Latest returns the most recent completed run, or nil.
func (r *Runner) Latest() *dmn.Run {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.latest
}

// Execute runs one expedition against the given hardware. It blocks
// until the explorer reaches Done or ctx is cancelled; on cancellation
// the partial map is still exported and recorded.
func (r *Runner) Execute(ctx context.Context, scanner explorehw.RangeScanner, chassis explorehw.Chassis) (*dmn.Run, error) {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil, ErrRunInProgress
	}
	r.running = true
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	runID := uuid.New()
	log := r.logger.With().Stringer("run_id", runID).Logger()

	if r.telemetry != nil {
		if err := r.telemetry.AcquireRobot(ctx, runID); err != nil {
			return nil, err
		}
		defer func() {
			if err := r.telemetry.ReleaseRobot(context.Background()); err != nil {
				log.Warn().Err(err).Msg("releasing robot lock")
			}
		}()
	}

	graph, err := maze.NewGridGraph(r.cfg.Bounds)
	if err != nil {
		return nil, err
	}

	var observer func(explore.StepEvent)
	if r.telemetry != nil {
		observer = func(ev explore.StepEvent) {
			if err := r.telemetry.PublishStep(ctx, runID, ev); err != nil {
				log.Warn().Err(err).Msg("publishing step event")
			}
		}
	}

	explorer, err := explore.New(graph, scanner, chassis, explore.Config{
		Start:           r.cfg.Start,
		Heading:         r.cfg.Heading,
		WallThresholdCm: r.cfg.WallThresholdCm,
		MaxNodes:        r.cfg.MaxNodes,
		Priority:        r.cfg.Priority,
		EnableCaching:   r.cfg.EnableCaching,
		Observer:        observer,
		Logger:          log,
	})
	if err != nil {
		return nil, err
	}

	startedAt := time.Now()
	log.Info().
		Int("max_nodes", r.cfg.MaxNodes).
		Float64("wall_threshold_cm", r.cfg.WallThresholdCm).
		Msg("expedition started")

	stats, runErr := explorer.Run(ctx)

	// The snapshot is well-formed at any step boundary, so the map is
	// exported even when the run ended on a collaborator error.
	doc := export.Build(graph.Snapshot(), export.Options{
		RunID:           runID.String(),
		WallThresholdCm: r.cfg.WallThresholdCm,
	})

	if r.cfg.ExportPath != "" {
		if err := export.WriteFile(doc, r.cfg.ExportPath); err != nil {
			log.Error().Err(err).Str("path", r.cfg.ExportPath).Msg("writing map export")
		} else {
			log.Info().Str("path", r.cfg.ExportPath).Msg("map exported")
		}
	}

	run := &dmn.Run{
		ID:               runID,
		StartedAt:        startedAt,
		FinishedAt:       time.Now(),
		NodesExplored:    stats.NodesExplored,
		PhysicalScans:    stats.PhysicalScans,
		CachedScans:      stats.CachedScans,
		Backtracks:       stats.Backtracks,
		DeadEndReversals: stats.DeadEndReversals,
		MoveFailures:     stats.MoveFailures,
		Conflicts:        stats.Conflicts,
		BudgetExhausted:  stats.BudgetExhausted,
		Interrupted:      stats.Interrupted,
		Document:         *doc,
	}

	if r.archive != nil {
		if err := r.archive.Save(run); err != nil {
			log.Warn().Err(err).Msg("archiving run")
		}
	}

	r.mu.Lock()
	r.latest = run
	r.mu.Unlock()

	return run, runErr
}
