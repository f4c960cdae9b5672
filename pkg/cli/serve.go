package cli

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/cli/config"
	controller "github.com/ondc-official/deeplinkd/pkg/controller/http"
	"github.com/ondc-official/deeplinkd/pkg/infra/exec"
	"github.com/ondc-official/deeplinkd/pkg/infra/notify"
	"github.com/ondc-official/deeplinkd/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		serverCfg   config.Server
		githubCfg   config.GitHub
		registryCfg config.Registry
		releaseCfg  config.Release
		slackCfg    config.Slack
	)

	flags := append(serverCfg.Flags(), githubCfg.Flags()...)
	flags = append(flags, registryCfg.Flags()...)
	flags = append(flags, releaseCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			pipeline, err := releaseCfg.Pipeline()
			if err != nil {
				return goerr.Wrap(err, "failed to build release pipeline")
			}

			logger.Info("Starting deeplinkd server",
				slog.String("addr", serverCfg.Addr),
				slog.String("release_branch", pipeline.Branch),
			)

			// Create use cases
			var releaseOpts []usecase.ReleaseOption
			if slackCfg.WebhookURL != "" {
				releaseOpts = append(releaseOpts, usecase.WithNotifier(notify.NewSlack(slackCfg.WebhookURL)))
			}
			releaseUC := usecase.NewRelease(exec.New(), pipeline, releaseOpts...)
			// The gate follows the pipeline, which a pipeline file may
			// point at a different branch than the flag default.
			webhookUC := usecase.NewWebhook(releaseUC, pipeline.Branch)

			resolveUC := usecase.NewResolve(registryCfg.Client())

			// Create HTTP server with options
			server, err := controller.NewServer(
				ctx,
				webhookUC,
				resolveUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithWebhookSecret(githubCfg.WebhookSecret),
				controller.WithReleaseBranch(pipeline.Branch),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			// Start server in goroutine
			go func() {
				logger.Info("HTTP server starting", slog.String("addr", serverCfg.Addr))
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					logger.Error("HTTP server error", slog.Any("error", err))
				}
			}()

			// Wait for interrupt signal
			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

			select {
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// Graceful shutdown
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}
