package model

import (
	"time"

	"github.com/ondc-official/deeplinkd/pkg/domain/types"
)

// PushInfo represents information extracted from a push event that starts a
// release run
type PushInfo struct {
	Repository string // Repository full name or clone URL
	Branch     string // Branch that was pushed
	CommitSHA  string // Head commit SHA
	Pusher     string // User who pushed
}

// Step is a single release pipeline command
type Step struct {
	Name    string            `toml:"name"`
	Command string            `toml:"command"`
	Args    []string          `toml:"args"`
	Env     map[string]string `toml:"env,omitempty"`
	Dir     string            `toml:"-"`
}

// EnvKeys returns the names of environment variables bound to the step.
// Values are never exposed here so they cannot leak into logs.
func (s *Step) EnvKeys() []string {
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	return keys
}

// Pipeline is the ordered list of release steps for a repository. Steps are
// non-skippable and run strictly in order.
type Pipeline struct {
	Repository string `toml:"repository"`
	Branch     string `toml:"branch"`
	Steps      []Step `toml:"steps"`
}

// RunStatus is the terminal outcome of a release run
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunSucceeded RunStatus = "succeeded"
	RunFailed    RunStatus = "failed"
)

// StepResult records the outcome of one executed pipeline step
type StepResult struct {
	Name     string
	Duration time.Duration
	Output   string
	Err      error
}

// ReleaseRun represents one invocation of the release pipeline. Runs are
// ephemeral: nothing is persisted across invocations.
type ReleaseRun struct {
	ID         types.RunID
	Repository string
	Branch     string
	CommitSHA  string
	Status     RunStatus
	Steps      []StepResult
	FailedStep string
	StartedAt  time.Time
	FinishedAt time.Time
}
