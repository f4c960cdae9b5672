package config

import (
	"time"

	"github.com/ondc-official/deeplinkd/pkg/infra/registry"
	"github.com/urfave/cli/v3"
)

// Registry holds resolver host mapping configuration
type Registry struct {
	MappingURL string
	TTL        time.Duration
}

// Flags returns CLI flags for registry configuration
func (c *Registry) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "host-mapping-url",
			Usage:       "URL of the resolver host mapping JSON",
			Value:       registry.DefaultMappingURL,
			Destination: &c.MappingURL,
			Sources:     cli.EnvVars("DEEPLINKD_HOST_MAPPING_URL"),
		},
		&cli.DurationFlag{
			Name:        "host-mapping-ttl",
			Usage:       "How long a fetched host mapping stays valid (0 = no refresh)",
			Value:       0,
			Destination: &c.TTL,
			Sources:     cli.EnvVars("DEEPLINKD_HOST_MAPPING_TTL"),
		},
	}
}

// Client builds a registry client from the configuration
func (c *Registry) Client() *registry.Client {
	return registry.New(
		registry.WithMappingURL(c.MappingURL),
		registry.WithTTL(c.TTL),
	)
}
