package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/slack-go/slack"
)

// SlackNotifier posts release run outcomes to a Slack incoming webhook
type SlackNotifier struct {
	webhookURL string
}

// NewSlack creates a Slack notifier for the given incoming webhook URL
func NewSlack(webhookURL string) *SlackNotifier {
	return &SlackNotifier{webhookURL: webhookURL}
}

// NotifyRun posts the terminal outcome of a release run
func (n *SlackNotifier) NotifyRun(ctx context.Context, run *model.ReleaseRun) error {
	var text string
	switch run.Status {
	case model.RunSucceeded:
		text = fmt.Sprintf(":white_check_mark: Release run %s succeeded for %s@%s (%d steps, %s)",
			run.ID, run.Repository, run.Branch, len(run.Steps),
			run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond),
		)
	case model.RunFailed:
		text = fmt.Sprintf(":x: Release run %s failed for %s@%s at step %q",
			run.ID, run.Repository, run.Branch, run.FailedStep,
		)
	default:
		return nil
	}

	msg := &slack.WebhookMessage{Text: text}
	if err := slack.PostWebhookContext(ctx, n.webhookURL, msg); err != nil {
		return goerr.Wrap(err, "failed to post Slack notification",
			goerr.V("run_id", run.ID),
			goerr.V("status", run.Status),
		)
	}

	return nil
}
