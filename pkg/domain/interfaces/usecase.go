package interfaces

import (
	"context"

	"github.com/ondc-official/deeplinkd/pkg/domain/model"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// ProcessEvent processes a webhook event
	ProcessEvent(ctx context.Context, event *model.WebhookEvent) error
}

// ReleaseUseCase defines operations for running the release pipeline
type ReleaseUseCase interface {
	// Run executes the release pipeline once for the given push
	Run(ctx context.Context, info *model.PushInfo) (*model.ReleaseRun, error)
}

// ResolveUseCase defines operations for resolving deeplinks into usecase
// schemas
type ResolveUseCase interface {
	// FetchUsecase resolves a deeplink and fetches its usecase schema
	FetchUsecase(ctx context.Context, deeplink string) (map[string]any, error)
}
