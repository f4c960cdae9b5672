package types

import "github.com/google/uuid"

// Version is the application version, overridden at build time via ldflags.
var Version = "dev"

// RunID identifies a single release pipeline run
type RunID string

// NewRunID generates a new random RunID
func NewRunID() RunID {
	return RunID(uuid.NewString())
}

func (x RunID) String() string {
	return string(x)
}
