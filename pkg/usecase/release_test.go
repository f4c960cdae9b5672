package usecase_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/ondc-official/deeplinkd/pkg/usecase"
)

// MockRunner records executed steps and fails on configured step names
type MockRunner struct {
	calls    []model.Step
	failStep string
}

func (m *MockRunner) Run(ctx context.Context, step *model.Step) (string, error) {
	m.calls = append(m.calls, *step)
	if m.failStep != "" && step.Name == m.failStep {
		return "boom", errors.New("exit status 1")
	}
	return "ok", nil
}

// MockNotifier records notified runs
type MockNotifier struct {
	runs []*model.ReleaseRun
}

func (m *MockNotifier) NotifyRun(ctx context.Context, run *model.ReleaseRun) error {
	m.runs = append(m.runs, run)
	return nil
}

func testPipeline() *model.Pipeline {
	return &model.Pipeline{
		Repository: "https://github.com/example/repo",
		Branch:     "master",
		Steps: []model.Step{
			{Name: "checkout", Command: "git", Args: []string{"clone", "--branch", "master", "https://github.com/example/repo", "."}},
			{Name: "runtime", Command: "python3", Args: []string{"-m", "venv", ".venv"}},
			{Name: "install", Command: ".venv/bin/pip", Args: []string{"install", "python-semantic-release"}},
			{Name: "publish", Command: ".venv/bin/semantic-release", Args: []string{"publish"}, Env: map[string]string{"GH_TOKEN": "secret"}},
		},
	}
}

func TestReleaseUseCase_Run_Success(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}
	notifier := &MockNotifier{}

	uc := usecase.NewRelease(runner, testPipeline(), usecase.WithNotifier(notifier))

	run, err := uc.Run(ctx, &model.PushInfo{
		Repository: "example/repo",
		Branch:     "master",
		CommitSHA:  "abc123",
	})

	gt.NoError(t, err)
	gt.Value(t, run.Status).Equal(model.RunSucceeded)
	gt.Number(t, len(run.Steps)).Equal(4)
	gt.Value(t, run.FailedStep).Equal("")

	// Steps run in declared order
	gt.Value(t, runner.calls[0].Name).Equal("checkout")
	gt.Value(t, runner.calls[1].Name).Equal("runtime")
	gt.Value(t, runner.calls[2].Name).Equal("install")
	gt.Value(t, runner.calls[3].Name).Equal("publish")

	// All steps share one fresh workspace
	workdir := runner.calls[0].Dir
	gt.Value(t, workdir).NotEqual("")
	for _, call := range runner.calls {
		gt.Value(t, call.Dir).Equal(workdir)
	}

	// Workspace is removed after the run
	_, statErr := os.Stat(workdir)
	gt.Value(t, os.IsNotExist(statErr)).Equal(true)

	// Token is bound only to the publish step
	gt.Value(t, runner.calls[3].Env["GH_TOKEN"]).Equal("secret")
	gt.Number(t, len(runner.calls[0].Env)).Equal(0)

	// Terminal outcome is reported
	gt.Number(t, len(notifier.runs)).Equal(1)
	gt.Value(t, notifier.runs[0].Status).Equal(model.RunSucceeded)
}

func TestReleaseUseCase_Run_FailFast(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{failStep: "runtime"}
	notifier := &MockNotifier{}

	uc := usecase.NewRelease(runner, testPipeline(), usecase.WithNotifier(notifier))

	run, err := uc.Run(ctx, &model.PushInfo{Repository: "example/repo", Branch: "master"})

	gt.Error(t, err)
	gt.Value(t, run.Status).Equal(model.RunFailed)
	gt.Value(t, run.FailedStep).Equal("runtime")

	// No step after the failing one executes
	gt.Number(t, len(runner.calls)).Equal(2)
	gt.Value(t, runner.calls[1].Name).Equal("runtime")

	// Only a failure is reported, never a success
	gt.Number(t, len(notifier.runs)).Equal(1)
	gt.Value(t, notifier.runs[0].Status).Equal(model.RunFailed)

	// The failing step's output is captured
	gt.Value(t, run.Steps[1].Output).Equal("boom")
}

func TestReleaseUseCase_Run_FailsOnFirstStep(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{failStep: "checkout"}

	uc := usecase.NewRelease(runner, testPipeline())

	run, err := uc.Run(ctx, &model.PushInfo{Repository: "example/repo", Branch: "master"})

	gt.Error(t, err)
	gt.Number(t, len(runner.calls)).Equal(1)
	gt.Value(t, run.FailedStep).Equal("checkout")
}

func TestReleaseUseCase_Run_CloneIsFullDepth(t *testing.T) {
	ctx := context.Background()
	runner := &MockRunner{}

	uc := usecase.NewRelease(runner, testPipeline())

	_, err := uc.Run(ctx, &model.PushInfo{Repository: "example/repo", Branch: "master"})
	gt.NoError(t, err)

	for _, arg := range runner.calls[0].Args {
		gt.Value(t, arg).NotEqual("--depth")
	}
}
