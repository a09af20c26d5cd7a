package explore

import "fmt"

// State is the explorer's position in its control state machine.
type State uint8

const (
	// Scanning collects wall readings for the current cell.
	Scanning State = iota
	// Choosing selects the next direction from the unexplored exits.
	Choosing
	// Moving issues a forward move and awaits completion.
	Moving
	// Backtracking returns along the visit stack toward a cell with
	// unexplored exits.
	Backtracking
	// Done is terminal: no candidates remain, the node budget is
	// exhausted, or the run was interrupted.
	Done
)

var stateNames = [5]string{"scanning", "choosing", "moving", "backtracking", "done"}

// String returns the lowercase state name.
func (s State) String() string {
	if int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", uint8(s))
	}
	return stateNames[s]
}

// Stats summarizes one exploration run.
type Stats struct {
	// NodesExplored counts distinct cells visited.
	NodesExplored int
	// PhysicalScans counts cells whose walls required sensor reads.
	PhysicalScans int
	// CachedScans counts re-entries that skipped scanning entirely.
	CachedScans int
	// Backtracks counts reverse moves along the visit stack.
	Backtracks int
	// DeadEndReversals counts dead ends the robot backed out of.
	DeadEndReversals int
	// MoveFailures counts commanded moves that did not complete.
	MoveFailures int
	// Conflicts counts wall re-reads that contradicted resolved state.
	Conflicts int
	// BudgetExhausted is set when the run stopped at MaxNodes.
	BudgetExhausted bool
	// Interrupted is set when the run stopped on context cancellation.
	Interrupted bool
}
