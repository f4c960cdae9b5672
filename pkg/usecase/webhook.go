package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/ondc-official/deeplinkd/pkg/domain/interfaces"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/ondc-official/deeplinkd/pkg/utils/async"
)

type webhookUseCase struct {
	releaseUC interfaces.ReleaseUseCase
	branch    string
}

// NewWebhook creates a new instance of WebhookUseCase. Push events to branch
// start a release run; everything else is acknowledged and dropped.
func NewWebhook(releaseUC interfaces.ReleaseUseCase, branch string) interfaces.WebhookUseCase {
	return &webhookUseCase{
		releaseUC: releaseUC,
		branch:    branch,
	}
}

// ProcessEvent processes a webhook event. The release run is dispatched
// asynchronously so the webhook response does not wait on the pipeline.
func (uc *webhookUseCase) ProcessEvent(ctx context.Context, event *model.WebhookEvent) error {
	logger := ctxlog.From(ctx)

	logger.Info("Processing webhook event",
		"id", event.ID,
		"type", event.Type,
		"ref", event.Ref,
		"repository", event.Repository,
		"sender", event.Sender,
		"supported", event.IsSupportedEvent(),
	)

	if !event.IsSupportedEvent() {
		logger.Warn("Unsupported event received",
			"type", event.Type,
			"ref", event.Ref,
		)
		return nil
	}

	if !event.TargetsBranch(uc.branch) {
		logger.Info("Ignoring push outside the release branch",
			"ref", event.Ref,
			"release_branch", uc.branch,
		)
		return nil
	}

	info := &model.PushInfo{
		Repository: event.Repository,
		Branch:     uc.branch,
		CommitSHA:  event.CommitSHA,
		Pusher:     event.Sender,
	}

	async.Dispatch(ctx, "release-run", func(ctx context.Context) error {
		_, err := uc.releaseUC.Run(ctx, info)
		return err
	})

	return nil
}
