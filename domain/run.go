// Package domain holds the run records shared between the run
// service, persistence and the dashboard API.
package domain

import (
	"time"

	"github.com/beka-birhanu/rover-mapper/export"
	"github.com/google/uuid"
)

// Run is the durable record of one mapping expedition: when it ran,
// how it ended and the full export document the plotter consumes.
type Run struct {
	ID               uuid.UUID       `bson:"_id" json:"id"`
	StartedAt        time.Time       `bson:"startedAt" json:"started_at"`
	FinishedAt       time.Time       `bson:"finishedAt" json:"finished_at"`
	NodesExplored    int             `bson:"nodesExplored" json:"nodes_explored"`
	PhysicalScans    int             `bson:"physicalScans" json:"physical_scans"`
	CachedScans      int             `bson:"cachedScans" json:"cached_scans"`
	Backtracks       int             `bson:"backtracks" json:"backtracks"`
	DeadEndReversals int             `bson:"deadEndReversals" json:"dead_end_reversals"`
	MoveFailures     int             `bson:"moveFailures" json:"move_failures"`
	Conflicts        int             `bson:"conflicts" json:"conflicts"`
	BudgetExhausted  bool            `bson:"budgetExhausted" json:"budget_exhausted"`
	Interrupted      bool            `bson:"interrupted" json:"interrupted"`
	Document         export.Document `bson:"document" json:"document"`
}
