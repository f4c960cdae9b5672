package interfaces

import (
	"context"

	"github.com/ondc-official/deeplinkd/pkg/domain/model"
)

// HostRegistry defines lookup of resolver hosts for deeplink authorities
type HostRegistry interface {
	// ResolverHost returns the resolver base URL for a deeplink authority
	ResolverHost(ctx context.Context, authority string) (string, error)
}

// CommandRunner executes a single pipeline step and returns its combined
// output
type CommandRunner interface {
	Run(ctx context.Context, step *model.Step) (string, error)
}

// Notifier reports a finished release run to an external channel
type Notifier interface {
	NotifyRun(ctx context.Context, run *model.ReleaseRun) error
}
