package exec

import (
	"context"
	"os"
	osexec "os/exec"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
)

// Runner executes pipeline steps as local commands
type Runner struct{}

// New creates a new command runner
func New() *Runner {
	return &Runner{}
}

// Run executes the step and returns its combined stdout/stderr. A non-zero
// exit is returned as an error together with the captured output.
func (r *Runner) Run(ctx context.Context, step *model.Step) (string, error) {
	cmd := osexec.CommandContext(ctx, step.Command, step.Args...)
	cmd.Dir = step.Dir

	// Step env is appended on top of the process env so that bound
	// credentials are visible only to this command.
	env := os.Environ()
	for k, v := range step.Env {
		env = append(env, k+"="+v)
	}
	cmd.Env = env

	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), goerr.Wrap(err, "command failed",
			goerr.V("step", step.Name),
			goerr.V("command", step.Command),
			goerr.V("args", step.Args),
		)
	}

	return string(out), nil
}
