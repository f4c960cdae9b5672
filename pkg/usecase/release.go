package usecase

import (
	"context"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/domain/interfaces"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/ondc-official/deeplinkd/pkg/domain/types"
)

type releaseUseCase struct {
	runner   interfaces.CommandRunner
	pipeline *model.Pipeline
	notifier interfaces.Notifier
}

// ReleaseOption is a functional option for the release use case
type ReleaseOption func(*releaseUseCase)

// WithNotifier reports terminal run outcomes to the given notifier
func WithNotifier(notifier interfaces.Notifier) ReleaseOption {
	return func(uc *releaseUseCase) {
		uc.notifier = notifier
	}
}

// NewRelease creates a new instance of ReleaseUseCase
func NewRelease(runner interfaces.CommandRunner, pipeline *model.Pipeline, opts ...ReleaseOption) interfaces.ReleaseUseCase {
	uc := &releaseUseCase{
		runner:   runner,
		pipeline: pipeline,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Run executes the release pipeline once: every step in declared order, in a
// fresh workspace, aborting on the first failure. There is exactly one
// attempt per invocation; no retries and no partial continuation.
func (uc *releaseUseCase) Run(ctx context.Context, info *model.PushInfo) (*model.ReleaseRun, error) {
	logger := ctxlog.From(ctx)

	run := &model.ReleaseRun{
		ID:         types.NewRunID(),
		Repository: info.Repository,
		Branch:     info.Branch,
		CommitSHA:  info.CommitSHA,
		Status:     model.RunRunning,
		StartedAt:  time.Now(),
	}

	logger.Info("Starting release run",
		"run_id", run.ID,
		"repository", run.Repository,
		"branch", run.Branch,
		"commit_sha", run.CommitSHA,
		"steps", len(uc.pipeline.Steps),
	)

	workdir, err := os.MkdirTemp("", "deeplinkd-release-*")
	if err != nil {
		run.Status = model.RunFailed
		return run, goerr.Wrap(err, "failed to create run workspace")
	}
	if err := os.Chmod(workdir, 0700); err != nil {
		run.Status = model.RunFailed
		return run, goerr.Wrap(err, "failed to set workspace permissions", goerr.V("workdir", workdir))
	}
	defer func() {
		if err := os.RemoveAll(workdir); err != nil {
			logger.Warn("Failed to clean up run workspace",
				"run_id", run.ID,
				"workdir", workdir,
				"error", err,
			)
		}
	}()

	for i := range uc.pipeline.Steps {
		step := uc.pipeline.Steps[i]
		step.Dir = workdir

		logger.Info("Running release step",
			"run_id", run.ID,
			"step", step.Name,
			"command", step.Command,
			"args", step.Args,
			"env_keys", step.EnvKeys(),
		)

		started := time.Now()
		output, err := uc.runner.Run(ctx, &step)
		result := model.StepResult{
			Name:     step.Name,
			Duration: time.Since(started),
			Output:   output,
			Err:      err,
		}
		run.Steps = append(run.Steps, result)

		if err != nil {
			run.Status = model.RunFailed
			run.FailedStep = step.Name
			run.FinishedAt = time.Now()

			logger.Error("Release step failed, aborting run",
				"run_id", run.ID,
				"step", step.Name,
				"output", output,
				"error", err,
			)

			uc.notify(ctx, run)
			return run, goerr.Wrap(err, "release run aborted",
				goerr.V("run_id", run.ID),
				goerr.V("step", step.Name),
			)
		}

		logger.Debug("Release step succeeded",
			"run_id", run.ID,
			"step", step.Name,
			"duration_ms", result.Duration.Milliseconds(),
		)
	}

	run.Status = model.RunSucceeded
	run.FinishedAt = time.Now()

	logger.Info("Release run succeeded",
		"run_id", run.ID,
		"repository", run.Repository,
		"duration_ms", run.FinishedAt.Sub(run.StartedAt).Milliseconds(),
	)

	uc.notify(ctx, run)
	return run, nil
}

func (uc *releaseUseCase) notify(ctx context.Context, run *model.ReleaseRun) {
	if uc.notifier == nil {
		return
	}
	if err := uc.notifier.NotifyRun(ctx, run); err != nil {
		ctxlog.From(ctx).Warn("Failed to send run notification",
			"run_id", run.ID,
			"error", err,
		)
	}
}
