package i

import (
	dmn "github.com/beka-birhanu/rover-mapper/domain"
	"github.com/google/uuid"
)

// RunArchive defines the interface for run persistence operations.
type RunArchive interface {
	// Save inserts or updates a run record.
	// If the run already exists, it updates the record. Otherwise, it creates a new one.
	Save(run *dmn.Run) error

	// ByID retrieves a run by its unique ID.
	// Returns an error if the run is not found or in case of an unexpected error.
	ByID(id uuid.UUID) (*dmn.Run, error)

	// Latest retrieves the most recently started run.
	Latest() (*dmn.Run, error)
}
