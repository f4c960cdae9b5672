package usecase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/ondc-official/deeplinkd/pkg/domain/interfaces"
	"github.com/ondc-official/deeplinkd/pkg/domain/model"
)

type resolveUseCase struct {
	registry   interfaces.HostRegistry
	httpClient *http.Client
}

// ResolveOption is a functional option for the resolve use case
type ResolveOption func(*resolveUseCase)

// WithHTTPClient overrides the HTTP client used for usecase fetches
func WithHTTPClient(client *http.Client) ResolveOption {
	return func(uc *resolveUseCase) {
		uc.httpClient = client
	}
}

// NewResolve creates a new instance of ResolveUseCase
func NewResolve(registry interfaces.HostRegistry, opts ...ResolveOption) interfaces.ResolveUseCase {
	uc := &resolveUseCase{
		registry: registry,
		// Resolver hosts commonly redirect to raw storage, so redirects
		// are followed.
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// FetchUsecase resolves a deeplink to its resolver host and fetches the
// usecase schema JSON
func (uc *resolveUseCase) FetchUsecase(ctx context.Context, deeplink string) (map[string]any, error) {
	logger := ctxlog.From(ctx)

	link, err := model.ParseDeeplink(deeplink)
	if err != nil {
		return nil, err
	}

	host, err := uc.registry.ResolverHost(ctx, link.Authority)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up resolver host",
			goerr.V("authority", link.Authority),
		)
	}

	url := host + "/" + link.UUID
	logger.Debug("Fetching usecase schema",
		"authority", link.Authority,
		"uuid", link.UUID,
		"url", url,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create usecase request", goerr.V("url", url))
	}

	resp, err := uc.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to fetch usecase", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("unexpected status code fetching usecase",
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read usecase response", goerr.V("url", url))
	}

	var schema map[string]any
	if err := json.Unmarshal(body, &schema); err != nil {
		return nil, goerr.Wrap(err, "usecase response is not a JSON object", goerr.V("url", url))
	}

	logger.Info("Fetched usecase schema",
		"authority", link.Authority,
		"uuid", link.UUID,
		"size_bytes", len(body),
	)

	return schema, nil
}
