package i

import (
	"context"

	"github.com/beka-birhanu/rover-mapper/explore"
	"github.com/google/uuid"
)

// Telemetry streams run progress to external observers and guards the
// vehicle so a single mapper drives it at a time.
type Telemetry interface {
	// AcquireRobot takes the distributed robot lock for the run.
	AcquireRobot(ctx context.Context, runID uuid.UUID) error

	// ReleaseRobot releases the robot lock.
	ReleaseRobot(ctx context.Context) error

	// PublishStep broadcasts one explorer state transition.
	PublishStep(ctx context.Context, runID uuid.UUID, ev explore.StepEvent) error
}
