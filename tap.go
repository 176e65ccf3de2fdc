package tapsocrata

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/tap-socrata/internal/config"
	"github.com/aretw0/tap-socrata/internal/discovery"
	"github.com/aretw0/tap-socrata/internal/logging"
	"github.com/aretw0/tap-socrata/internal/metrics"
	"github.com/aretw0/tap-socrata/internal/socrata"
	syncengine "github.com/aretw0/tap-socrata/internal/sync"
	"github.com/aretw0/tap-socrata/pkg/ports"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// Tap is the high-level entry point for the tap-socrata library.
// It wraps the internal discovery and sync engines and provides a simplified
// API for consumers.
type Tap struct {
	settings   config.Settings
	client     *socrata.Client
	logger     *slog.Logger
	metrics    *metrics.Metrics
	httpClient *http.Client
	store      ports.StateStore
	runID      string
}

// Option defines a functional option for configuring the Tap.
type Option func(*Tap)

// WithLogger sets a custom structured logger. Logs go to stderr by default;
// stdout is reserved for the Singer message stream.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tap) {
		t.logger = logger
	}
}

// WithHTTPClient injects a custom HTTP client, bypassing the default
// timeout configuration. Useful for tests and custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(t *Tap) {
		t.httpClient = hc
	}
}

// WithMetricsRegistry registers tap metrics on the given Prometheus
// registry. Without it no metrics are collected.
func WithMetricsRegistry(reg *prometheus.Registry) Option {
	return func(t *Tap) {
		t.metrics = metrics.New(reg)
	}
}

// WithStateStore mirrors emitted state into a store under runID, in addition
// to the STATE messages on stdout.
func WithStateStore(store ports.StateStore, runID string) Option {
	return func(t *Tap) {
		t.store = store
		t.runID = runID
	}
}

// New creates a Tap from a raw settings map (the decoded contents of a
// config file). The map is validated against the settings schema; see
// config.SettingsSchema for the accepted keys.
func New(rawSettings map[string]any, opts ...Option) (*Tap, error) {
	settings, err := config.Parse(rawSettings)
	if err != nil {
		return nil, err
	}

	t := &Tap{
		settings: settings,
		logger:   logging.NewNop(),
		runID:    "default",
	}
	for _, opt := range opts {
		opt(t)
	}

	httpClient := t.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: time.Duration(settings.RequestTimeoutSeconds) * time.Second,
		}
	}

	clientOpts := []socrata.Option{
		socrata.WithDomains(settings.Domains),
		socrata.WithHTTPClient(httpClient),
		socrata.WithLogger(t.logger),
		socrata.WithPageLimit(settings.PageLimit),
	}
	if settings.APIKeyID != "" {
		clientOpts = append(clientOpts, socrata.WithAPIKey(settings.APIKeyID, settings.APIKeySecret))
	}
	if token := settings.AppToken; token != "" {
		clientOpts = append(clientOpts, socrata.WithAppToken(token))
	} else if settings.SecretToken != "" {
		clientOpts = append(clientOpts, socrata.WithAppToken(settings.SecretToken))
	}
	if settings.UserAgent != "" {
		clientOpts = append(clientOpts, socrata.WithUserAgent(settings.UserAgent))
	}
	if t.metrics != nil {
		clientOpts = append(clientOpts, socrata.WithMetrics(t.metrics))
	}
	t.client = socrata.New(clientOpts...)

	return t, nil
}

// Discover queries the Socrata discovery API for every configured domain and
// builds a Singer catalog. With no domains configured the search spans all
// public Socrata datasets, which can take a while.
func (t *Tap) Discover(ctx context.Context) (*singer.Catalog, error) {
	datasets, err := t.client.Catalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("discovery failed: %w", err)
	}
	t.logger.Info("discovery complete", "datasets", len(datasets))
	return discovery.BuildCatalog(datasets, t.logger), nil
}

// Sync streams every selected catalog stream as Singer messages through the
// writer, resuming from the bookmarks in state. A nil state starts from
// scratch.
func (t *Tap) Sync(ctx context.Context, catalog *singer.Catalog, state *singer.State, writer *singer.Writer) error {
	engineOpts := []syncengine.Option{
		syncengine.WithLogger(t.logger),
		syncengine.WithPageLimit(t.client.PageLimit()),
	}
	if t.metrics != nil {
		engineOpts = append(engineOpts, syncengine.WithMetrics(t.metrics))
	}
	if t.store != nil {
		engineOpts = append(engineOpts, syncengine.WithStateStore(t.store, t.runID))
	}

	return syncengine.New(t.client, writer, engineOpts...).Run(ctx, catalog, state)
}
