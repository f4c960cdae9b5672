package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/cli/config"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/ondc-official/deeplinkd/pkg/infra/exec"
	"github.com/ondc-official/deeplinkd/pkg/infra/notify"
	"github.com/ondc-official/deeplinkd/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const stepRound = 10 * time.Millisecond

func cmdRelease() *cli.Command {
	var (
		releaseCfg config.Release
		slackCfg   config.Slack
	)

	flags := append(releaseCfg.Flags(), slackCfg.Flags()...)

	return &cli.Command{
		Name:  "release",
		Usage: "Run the release pipeline once, without waiting for a push",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			pipeline, err := releaseCfg.Pipeline()
			if err != nil {
				return goerr.Wrap(err, "failed to build release pipeline")
			}

			var opts []usecase.ReleaseOption
			if slackCfg.WebhookURL != "" {
				opts = append(opts, usecase.WithNotifier(notify.NewSlack(slackCfg.WebhookURL)))
			}

			releaseUC := usecase.NewRelease(exec.New(), pipeline, opts...)
			run, runErr := releaseUC.Run(ctx, &model.PushInfo{
				Repository: pipeline.Repository,
				Branch:     pipeline.Branch,
			})

			for _, step := range run.Steps {
				if step.Err != nil {
					color.Red("✗ %s (%s)", step.Name, step.Duration.Round(stepRound))
				} else {
					color.Green("✓ %s (%s)", step.Name, step.Duration.Round(stepRound))
				}
			}

			if runErr != nil {
				return runErr
			}
			fmt.Printf("release run %s succeeded\n", run.ID)
			return nil
		},
	}
}
