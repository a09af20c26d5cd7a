// Package mazeapi provides structures for the dashboard responses.
package mazeapi

import (
	"time"

	dmn "github.com/beka-birhanu/rover-mapper/domain"
)

// StatusResponse summarizes the latest completed run.
type StatusResponse struct {
	RunID            string    `json:"run_id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	NodesExplored    int       `json:"nodes_explored"`
	PhysicalScans    int       `json:"physical_scans"`
	CachedScans      int       `json:"cached_scans"`
	Backtracks       int       `json:"backtracks"`
	DeadEndReversals int       `json:"dead_end_reversals"`
	MoveFailures     int       `json:"move_failures"`
	Conflicts        int       `json:"conflicts"`
	BudgetExhausted  bool      `json:"budget_exhausted"`
	Interrupted      bool      `json:"interrupted"`
}

func newStatusResponse(run *dmn.Run) StatusResponse {
	return StatusResponse{
		RunID:            run.ID.String(),
		StartedAt:        run.StartedAt,
		FinishedAt:       run.FinishedAt,
		NodesExplored:    run.NodesExplored,
		PhysicalScans:    run.PhysicalScans,
		CachedScans:      run.CachedScans,
		Backtracks:       run.Backtracks,
		DeadEndReversals: run.DeadEndReversals,
		MoveFailures:     run.MoveFailures,
		Conflicts:        run.Conflicts,
		BudgetExhausted:  run.BudgetExhausted,
		Interrupted:      run.Interrupted,
	}
}
