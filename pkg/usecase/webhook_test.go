package usecase_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"

	"github.com/ondc-official/deeplinkd/pkg/cli/config"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/ondc-official/deeplinkd/pkg/usecase"
)

// MockReleaseUseCase signals on a channel when a run is dispatched
type MockReleaseUseCase struct {
	runs chan *model.PushInfo
}

func NewMockReleaseUseCase() *MockReleaseUseCase {
	return &MockReleaseUseCase{runs: make(chan *model.PushInfo, 1)}
}

func (m *MockReleaseUseCase) Run(ctx context.Context, info *model.PushInfo) (*model.ReleaseRun, error) {
	m.runs <- info
	return &model.ReleaseRun{Status: model.RunSucceeded}, nil
}

func (m *MockReleaseUseCase) waitForRun(t *testing.T) *model.PushInfo {
	t.Helper()
	select {
	case info := <-m.runs:
		return info
	case <-time.After(2 * time.Second):
		t.Fatal("release run was not dispatched")
		return nil
	}
}

func (m *MockReleaseUseCase) assertNoRun(t *testing.T) {
	t.Helper()
	select {
	case <-m.runs:
		t.Fatal("release run dispatched unexpectedly")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWebhookUseCase_PushToReleaseBranch(t *testing.T) {
	ctx := context.Background()
	releaseUC := NewMockReleaseUseCase()
	uc := usecase.NewWebhook(releaseUC, "master")

	event := &model.WebhookEvent{
		ID:         "delivery-1",
		Type:       model.EventTypePush,
		Ref:        "refs/heads/master",
		Repository: "example/repo",
		Sender:     "alice",
		CommitSHA:  "abc123",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))

	info := releaseUC.waitForRun(t)
	gt.Value(t, info.Repository).Equal("example/repo")
	gt.Value(t, info.Branch).Equal("master")
	gt.Value(t, info.CommitSHA).Equal("abc123")
	gt.Value(t, info.Pusher).Equal("alice")
}

func TestWebhookUseCase_PushToOtherBranch(t *testing.T) {
	ctx := context.Background()
	releaseUC := NewMockReleaseUseCase()
	uc := usecase.NewWebhook(releaseUC, "master")

	event := &model.WebhookEvent{
		Type: model.EventTypePush,
		Ref:  "refs/heads/develop",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))
	releaseUC.assertNoRun(t)
}

func TestWebhookUseCase_TagPush(t *testing.T) {
	ctx := context.Background()
	releaseUC := NewMockReleaseUseCase()
	uc := usecase.NewWebhook(releaseUC, "master")

	event := &model.WebhookEvent{
		Type: model.EventTypePush,
		Ref:  "refs/tags/v1.0.0",
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))
	releaseUC.assertNoRun(t)
}

func TestWebhookUseCase_BranchDeletion(t *testing.T) {
	ctx := context.Background()
	releaseUC := NewMockReleaseUseCase()
	uc := usecase.NewWebhook(releaseUC, "master")

	event := &model.WebhookEvent{
		Type:    model.EventTypePush,
		Ref:     "refs/heads/master",
		Deleted: true,
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))
	releaseUC.assertNoRun(t)
}

func TestWebhookUseCase_GateFollowsPipelineBranch(t *testing.T) {
	ctx := context.Background()
	releaseUC := NewMockReleaseUseCase()

	// A pipeline file may target a branch other than the flag default;
	// the gate must follow the pipeline's branch.
	pipelineFile := filepath.Join(t.TempDir(), "pipeline.toml")
	gt.NoError(t, os.WriteFile(pipelineFile, []byte(`
repository = "https://github.com/example/repo"
branch = "main"

[[steps]]
name = "checkout"
command = "git"
args = ["clone", "--branch", "main", "https://github.com/example/repo", "."]
`), 0600))

	cfg := &config.Release{Branch: "master", PipelineFile: pipelineFile}
	pipeline, err := cfg.Pipeline()
	gt.NoError(t, err)
	gt.Value(t, pipeline.Branch).Equal("main")

	uc := usecase.NewWebhook(releaseUC, pipeline.Branch)

	gt.NoError(t, uc.ProcessEvent(ctx, &model.WebhookEvent{
		Type: model.EventTypePush,
		Ref:  "refs/heads/master",
	}))
	releaseUC.assertNoRun(t)

	gt.NoError(t, uc.ProcessEvent(ctx, &model.WebhookEvent{
		Type:       model.EventTypePush,
		Ref:        "refs/heads/main",
		Repository: "example/repo",
	}))
	info := releaseUC.waitForRun(t)
	gt.Value(t, info.Branch).Equal("main")
}

func TestWebhookUseCase_UnknownEvent(t *testing.T) {
	ctx := context.Background()
	releaseUC := NewMockReleaseUseCase()
	uc := usecase.NewWebhook(releaseUC, "master")

	event := &model.WebhookEvent{
		Type: model.EventTypeUnknown,
	}

	gt.NoError(t, uc.ProcessEvent(ctx, event))
	releaseUC.assertNoRun(t)
}
