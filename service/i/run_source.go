package i

import (
	dmn "github.com/beka-birhanu/rover-mapper/domain"
)

// RunSource exposes the most recent completed run to read-side
// consumers such as the dashboard API.
type RunSource interface {
	// Latest returns the most recent completed run, or nil when no run
	// has finished yet.
	Latest() *dmn.Run
}
