package processor

import (
	"context"
	"io"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
)

// Resolver produces a value for a dot-separated path during DynamicResolve
type Resolver interface {
	resolve(ctx context.Context, client *http.Client) (string, error)
}

type staticResolver string

func (r staticResolver) resolve(ctx context.Context, client *http.Client) (string, error) {
	return string(r), nil
}

// Static returns a resolver that always yields the given value
func Static(value string) Resolver {
	return staticResolver(value)
}

type urlResolver string

func (r urlResolver) resolve(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(r), nil)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create resolver request", goerr.V("url", string(r)))
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", goerr.Wrap(err, "failed to fetch resolver value", goerr.V("url", string(r)))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", goerr.New("unexpected status code from resolver",
			goerr.V("url", string(r)),
			goerr.V("status", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read resolver response", goerr.V("url", string(r)))
	}

	return string(body), nil
}

// URL returns a resolver that fetches its value from the given URL at
// resolve time
func URL(url string) Resolver {
	return urlResolver(url)
}

type funcResolver func(ctx context.Context) (string, error)

func (r funcResolver) resolve(ctx context.Context, client *http.Client) (string, error) {
	return r(ctx)
}

// Func returns a resolver backed by a callback
func Func(f func(ctx context.Context) (string, error)) Resolver {
	return funcResolver(f)
}
