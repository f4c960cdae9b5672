package registry

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// DefaultMappingURL is the published ONDC resolver host mapping
const DefaultMappingURL = "https://raw.githubusercontent.com/ONDC-Official/deeplink-host-config/refs/heads/master/host_mapping.json"

// ErrAuthorityNotFound is returned when the host mapping has no entry for a
// deeplink authority
var ErrAuthorityNotFound = goerr.New("resolver authority not found in host mapping")

// Client fetches and caches the resolver host mapping. The mapping is
// fetched lazily on first lookup and refreshed after the TTL expires.
type Client struct {
	url        string
	ttl        time.Duration
	httpClient *http.Client

	mu        sync.Mutex
	mapping   map[string]string
	fetchedAt time.Time
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithMappingURL overrides the host mapping URL
func WithMappingURL(url string) Option {
	return func(c *Client) {
		c.url = url
	}
}

// WithTTL sets how long a fetched mapping stays valid. Zero disables
// refresh: the first successful fetch is kept for the process lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.ttl = ttl
	}
}

// WithHTTPClient overrides the HTTP client used for fetching
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// New creates a host mapping registry client
func New(opts ...Option) *Client {
	c := &Client{
		url:        DefaultMappingURL,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ResolverHost returns the resolver base URL for a deeplink authority
func (c *Client) ResolverHost(ctx context.Context, authority string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stale() {
		if err := c.refresh(ctx); err != nil {
			return "", err
		}
	}

	host, ok := c.mapping[authority]
	if !ok || host == "" {
		return "", goerr.Wrap(ErrAuthorityNotFound, "unknown authority",
			goerr.V("authority", authority),
		)
	}

	return host, nil
}

func (c *Client) stale() bool {
	if c.mapping == nil {
		return true
	}
	if c.ttl <= 0 {
		return false
	}
	return time.Since(c.fetchedAt) > c.ttl
}

// refresh fetches the mapping. Must be called with the lock held.
func (c *Client) refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create host mapping request", goerr.V("url", c.url))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to fetch host mapping", goerr.V("url", c.url))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status code for host mapping",
			goerr.V("url", c.url),
			goerr.V("status", resp.StatusCode),
		)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return goerr.Wrap(err, "failed to read host mapping response")
	}

	var mapping map[string]string
	if err := json.Unmarshal(body, &mapping); err != nil {
		return goerr.Wrap(err, "failed to parse host mapping JSON", goerr.V("url", c.url))
	}

	c.mapping = mapping
	c.fetchedAt = time.Now()
	return nil
}
