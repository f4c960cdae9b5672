package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/cli/config"
	"github.com/ondc-official/deeplinkd/pkg/processor"
	"github.com/ondc-official/deeplinkd/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdResolve() *cli.Command {
	var (
		registryCfg config.Registry
		valuesPath  string
		skipCheck   bool
	)

	flags := append(registryCfg.Flags(),
		&cli.StringFlag{
			Name:        "values",
			Usage:       "YAML file with static values (dot-separated keys)",
			Destination: &valuesPath,
			Sources:     cli.EnvVars("DEEPLINKD_VALUES_FILE"),
		},
		&cli.BoolFlag{
			Name:        "skip-validation",
			Usage:       "Print the materialized document even if it fails schema validation",
			Destination: &skipCheck,
		},
	)

	return &cli.Command{
		Name:      "resolve",
		Aliases:   []string{"r"},
		Usage:     "Resolve a deeplink into a usecase document",
		ArgsUsage: "<deeplink>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() != 1 {
				return goerr.New("expected exactly one deeplink argument")
			}
			deeplink := c.Args().First()

			resolveUC := usecase.NewResolve(registryCfg.Client())
			schema, err := resolveUC.FetchUsecase(ctx, deeplink)
			if err != nil {
				color.Red("✗ failed to fetch usecase")
				return err
			}
			color.Green("✓ fetched usecase schema")

			var opts []processor.Option
			if valuesPath != "" {
				opts = append(opts, processor.WithValuesFile(valuesPath))
			}

			proc, err := processor.New(schema, opts...)
			if err != nil {
				return err
			}
			if err := proc.StaticResolve(); err != nil {
				return err
			}

			doc, err := proc.ParsedUsecase()
			if err != nil {
				if !skipCheck {
					color.Red("✗ document failed schema validation")
					return err
				}
				color.Yellow("! document failed schema validation (printing anyway)")
				doc = proc.Document()
			} else {
				color.Green("✓ document satisfies schema")
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
}
