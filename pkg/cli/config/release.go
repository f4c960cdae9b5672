package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"
)

// Release holds release pipeline configuration
type Release struct {
	Repository   string
	Branch       string
	Token        string
	TokenVar     string
	PipelineFile string
}

// Flags returns CLI flags for release configuration
func (c *Release) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "release-repository",
			Usage:       "Clone URL of the repository to release",
			Destination: &c.Repository,
			Sources:     cli.EnvVars("DEEPLINKD_RELEASE_REPOSITORY"),
		},
		&cli.StringFlag{
			Name:        "release-branch",
			Usage:       "Branch whose pushes trigger a release",
			Value:       "master",
			Destination: &c.Branch,
			Sources:     cli.EnvVars("DEEPLINKD_RELEASE_BRANCH"),
		},
		&cli.StringFlag{
			Name:        "release-token",
			Usage:       "Token passed to the publish step",
			Destination: &c.Token,
			Sources:     cli.EnvVars("DEEPLINKD_RELEASE_TOKEN", "GH_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "release-token-var",
			Usage:       "Environment variable name the token is bound to",
			Value:       "GH_TOKEN",
			Destination: &c.TokenVar,
			Sources:     cli.EnvVars("DEEPLINKD_RELEASE_TOKEN_VAR"),
		},
		&cli.StringFlag{
			Name:        "pipeline-file",
			Usage:       "TOML file overriding the default release pipeline",
			Destination: &c.PipelineFile,
			Sources:     cli.EnvVars("DEEPLINKD_PIPELINE_FILE"),
		},
	}
}

// Pipeline builds the release pipeline. With no pipeline file the default
// four steps are used: full-history clone, runtime provisioning, tool
// install, publish. The token is bound only to the publish step.
func (c *Release) Pipeline() (*model.Pipeline, error) {
	if c.PipelineFile != "" {
		return c.loadPipelineFile()
	}

	if c.Repository == "" {
		return nil, goerr.New("release repository is not configured")
	}

	return &model.Pipeline{
		Repository: c.Repository,
		Branch:     c.Branch,
		Steps: []model.Step{
			{
				Name:    "checkout",
				Command: "git",
				// Full clone on purpose: the release tool derives the
				// next version from the whole commit history, so the
				// clone must never be shallow.
				Args: []string{"clone", "--branch", c.Branch, c.Repository, "."},
			},
			{
				Name:    "runtime",
				Command: "python3",
				Args:    []string{"-m", "venv", ".venv"},
			},
			{
				Name:    "install",
				Command: ".venv/bin/pip",
				Args:    []string{"install", "python-semantic-release"},
			},
			{
				Name:    "publish",
				Command: ".venv/bin/semantic-release",
				Args:    []string{"publish"},
				Env:     map[string]string{c.TokenVar: c.Token},
			},
		},
	}, nil
}

func (c *Release) loadPipelineFile() (*model.Pipeline, error) {
	raw, err := os.ReadFile(c.PipelineFile)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read pipeline file", goerr.V("path", c.PipelineFile))
	}

	var pipeline model.Pipeline
	if err := toml.Unmarshal(raw, &pipeline); err != nil {
		return nil, goerr.Wrap(err, "failed to parse pipeline file", goerr.V("path", c.PipelineFile))
	}

	if pipeline.Branch == "" {
		pipeline.Branch = c.Branch
	}
	if len(pipeline.Steps) == 0 {
		return nil, goerr.New("pipeline file declares no steps", goerr.V("path", c.PipelineFile))
	}

	// The token never lives in the pipeline file; it is bound here from
	// the secret store.
	if c.Token != "" {
		last := &pipeline.Steps[len(pipeline.Steps)-1]
		if last.Env == nil {
			last.Env = map[string]string{}
		}
		if _, ok := last.Env[c.TokenVar]; !ok {
			last.Env[c.TokenVar] = c.Token
		}
	}

	return &pipeline, nil
}
