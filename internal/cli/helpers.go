package cli

import (
	"context"
	"log/slog"

	tapsocrata "github.com/aretw0/tap-socrata"
	"github.com/aretw0/tap-socrata/internal/adapters/file"
	"github.com/aretw0/tap-socrata/internal/config"
	"github.com/aretw0/tap-socrata/internal/logging"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// createLogger configures the application logger. Logs always go to stderr
// so they never corrupt the Singer stream on stdout.
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelInfo)
}

// ResolveCatalog loads a catalog file when a path is given, otherwise runs
// discovery with the given config. Shared by the mcp and datasets commands.
func ResolveCatalog(ctx context.Context, configPath, catalogPath string, logger *slog.Logger) (*singer.Catalog, error) {
	if catalogPath != "" {
		return file.LoadCatalog(catalogPath)
	}

	raw := map[string]any{}
	if configPath != "" {
		var err error
		raw, err = config.LoadRaw(configPath)
		if err != nil {
			return nil, err
		}
	}

	tap, err := tapsocrata.New(raw, tapsocrata.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	return tap.Discover(ctx)
}
