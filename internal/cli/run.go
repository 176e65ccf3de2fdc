// Package cli wires configuration, state stores and the tap engine together
// for the tap-socrata command.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	tapsocrata "github.com/aretw0/tap-socrata"
	"github.com/aretw0/tap-socrata/internal/adapters/file"
	httpadapter "github.com/aretw0/tap-socrata/internal/adapters/http"
	redisstore "github.com/aretw0/tap-socrata/internal/adapters/redis"
	"github.com/aretw0/tap-socrata/internal/config"
	"github.com/aretw0/tap-socrata/pkg/ports"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// RunOptions contains all the configuration for the root command.
type RunOptions struct {
	ConfigPath  string
	CatalogPath string
	StatePath   string
	Discover    bool
	Debug       bool
	RunID       string
}

// Execute handles the root command logic: discovery mode writes the catalog
// to stdout, sync mode streams Singer messages.
func Execute(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	raw := map[string]any{}
	if opts.ConfigPath != "" {
		var err error
		raw, err = config.LoadRaw(opts.ConfigPath)
		if err != nil {
			return err
		}
	}
	settings, err := config.Parse(raw)
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "settings", settings.Redacted())

	if opts.RunID == "" {
		opts.RunID = "default"
	}

	store, closeStore, err := buildStateStore(settings.StateBackend)
	if err != nil {
		return err
	}
	if closeStore != nil {
		defer closeStore()
	}

	tapOpts := []tapsocrata.Option{tapsocrata.WithLogger(logger)}
	if store != nil {
		tapOpts = append(tapOpts, tapsocrata.WithStateStore(store, opts.RunID))
	}

	var registry *prometheus.Registry
	if settings.MetricsAddr != "" {
		registry = prometheus.NewRegistry()
		tapOpts = append(tapOpts, tapsocrata.WithMetricsRegistry(registry))
	}

	tap, err := tapsocrata.New(raw, tapOpts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.Discover {
		catalog, err := tap.Discover(ctx)
		if err != nil {
			return err
		}
		return writeCatalog(os.Stdout, catalog)
	}

	var catalog *singer.Catalog
	if opts.CatalogPath != "" {
		catalog, err = file.LoadCatalog(opts.CatalogPath)
	} else {
		logger.Info("no catalog provided, discovering all streams")
		catalog, err = tap.Discover(ctx)
	}
	if err != nil {
		return err
	}

	state, err := loadState(ctx, opts, store, logger)
	if err != nil {
		return err
	}

	if settings.MetricsAddr != "" {
		start := time.Now()
		srv := httpadapter.NewServer(settings.MetricsAddr, httpadapter.NewHandler(registry, func() map[string]any {
			return map[string]any{
				"version":        tapsocrata.Version,
				"uptime_seconds": int(time.Since(start).Seconds()),
			}
		}), logger)
		srv.Start()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	return tap.Sync(ctx, catalog, state, singer.NewWriter(os.Stdout))
}

// loadState resolves the starting state: an explicit --state file wins, then
// the configured backend's last run, then a fresh state.
func loadState(ctx context.Context, opts RunOptions, store ports.StateStore, logger *slog.Logger) (*singer.State, error) {
	if opts.StatePath != "" {
		return file.LoadState(opts.StatePath)
	}
	if store == nil {
		return singer.NewState(), nil
	}

	state, err := store.Load(ctx, opts.RunID)
	switch {
	case err == nil:
		logger.Info("resuming from stored state", "run_id", opts.RunID)
		return state, nil
	case errors.Is(err, ports.ErrStateNotFound):
		return singer.NewState(), nil
	default:
		return nil, fmt.Errorf("failed to load state for run %s: %w", opts.RunID, err)
	}
}

// buildStateStore maps the state_backend setting onto a store adapter.
// Accepted values: empty (no store), "file", "file://<dir>", or a redis URL.
func buildStateStore(backend string) (ports.StateStore, func(), error) {
	switch {
	case backend == "":
		return nil, nil, nil
	case backend == "file":
		return file.New(""), nil, nil
	case strings.HasPrefix(backend, "file://"):
		return file.New(strings.TrimPrefix(backend, "file://")), nil, nil
	case strings.HasPrefix(backend, "redis://"), strings.HasPrefix(backend, "rediss://"):
		redisOpts, err := goredis.ParseURL(backend)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis state backend URL: %w", err)
		}
		store := redisstore.NewFromClient(goredis.NewClient(redisOpts))
		return store, func() { _ = store.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown state backend %q (want \"file\", \"file://<dir>\" or a redis URL)", backend)
	}
}

func writeCatalog(w io.Writer, catalog *singer.Catalog) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(catalog); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}
