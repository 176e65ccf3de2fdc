package socrata

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/tap-socrata/internal/metrics"
)

// Discovery API roots. Socrata hosts a separate catalog for EU domains.
const (
	DiscoveryURLUS = "https://api.us.socrata.com/api/catalog/v1"
	DiscoveryURLEU = "https://api.eu.socrata.com/api/catalog/v1"
)

const (
	defaultPageLimit     = 50000 // maximum records returned per SODA request
	defaultCatalogLimit  = 1000
	defaultMaxRetries    = 5
	defaultRetryBaseWait = 500 * time.Millisecond
	maxErrorBodyBytes    = 512
)

// APIError is a non-retryable upstream failure.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("socrata %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Client talks to the Socrata discovery and SODA resource APIs.
type Client struct {
	httpClient   *http.Client
	logger       *slog.Logger
	metrics      *metrics.Metrics
	domains      []string
	apiKeyID     string
	apiKeySecret string
	appToken     string
	userAgent    string
	pageLimit    int
	catalogLimit int
	maxRetries   int
	retryWait    time.Duration
	discoveryURL string
}

type Option func(*Client)

// WithDomains restricts discovery to the given Socrata domains.
func WithDomains(domains []string) Option {
	return func(c *Client) {
		c.domains = domains
	}
}

// WithAPIKey sets the key pair used for HTTP basic authentication.
func WithAPIKey(id, secret string) Option {
	return func(c *Client) {
		c.apiKeyID = id
		c.apiKeySecret = secret
	}
}

// WithAppToken sets the Socrata app token (raises rate limits).
func WithAppToken(token string) Option {
	return func(c *Client) {
		c.appToken = token
	}
}

// WithUserAgent sets the User-Agent header for all requests.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithHTTPClient injects a custom HTTP client (tests, custom timeouts).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger injects a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMetrics wires request counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithPageLimit overrides the SODA page size.
func WithPageLimit(limit int) Option {
	return func(c *Client) {
		if limit > 0 {
			c.pageLimit = limit
		}
	}
}

// WithMaxRetries overrides the retry budget for transient failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithDiscoveryURL overrides the catalog API root (tests).
func WithDiscoveryURL(u string) Option {
	return func(c *Client) {
		c.discoveryURL = u
	}
}

// WithRetryWait overrides the base backoff wait (doubled per attempt).
func WithRetryWait(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryWait = d
		}
	}
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 120 * time.Second},
		logger:       slog.Default(),
		pageLimit:    defaultPageLimit,
		catalogLimit: defaultCatalogLimit,
		maxRetries:   defaultMaxRetries,
		retryWait:    defaultRetryBaseWait,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// PageLimit returns the configured SODA page size.
func (c *Client) PageLimit() int {
	return c.pageLimit
}

// DiscoveryURL picks the catalog API root. Only the first configured domain
// is consulted; an ".eu" TLD routes to the EU catalog.
func (c *Client) DiscoveryURL() string {
	if c.discoveryURL != "" {
		return c.discoveryURL
	}
	if len(c.domains) > 0 {
		domain := strings.ToLower(c.domains[0])
		if strings.HasSuffix(domain, ".eu") {
			return DiscoveryURLEU
		}
	}
	return DiscoveryURLUS
}

func (c *Client) setHeaders(req *http.Request) {
	if c.appToken != "" {
		req.Header.Set("X-App-Token", c.appToken)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKeyID != "" {
		req.SetBasicAuth(c.apiKeyID, c.apiKeySecret)
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// get performs a GET with retry on transient failures and returns the body.
// The endpoint label is used for logging and metrics only.
func (c *Client) get(ctx context.Context, endpoint, rawURL string, params url.Values) ([]byte, error) {
	fullURL := rawURL
	if len(params) > 0 {
		fullURL = rawURL + "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.retryWait << (attempt - 1)
			c.logger.Warn("retrying request", "endpoint", endpoint, "attempt", attempt, "wait", wait, "err", lastErr)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		c.setHeaders(req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.metrics.ObserveRequest(endpoint, "error")
			lastErr = err
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.metrics.ObserveRequest(endpoint, strconv.Itoa(resp.StatusCode))

		if resp.StatusCode == http.StatusOK {
			if readErr != nil {
				lastErr = readErr
				continue
			}
			return body, nil
		}

		snippet := string(body)
		if len(snippet) > maxErrorBodyBytes {
			snippet = snippet[:maxErrorBodyBytes]
		}
		apiErr := &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Body: snippet}

		if !retryable(resp.StatusCode) {
			return nil, apiErr
		}
		lastErr = apiErr
	}

	return nil, fmt.Errorf("request failed after %d retries: %w", c.maxRetries, lastErr)
}
