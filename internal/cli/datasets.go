package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tapsocrata "github.com/aretw0/tap-socrata"
	"github.com/aretw0/tap-socrata/internal/discovery"
	"github.com/aretw0/tap-socrata/internal/presentation/tui"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// DatasetsOptions configures the datasets listing command.
type DatasetsOptions struct {
	ConfigPath  string
	CatalogPath string
	Debug       bool
}

// Datasets lists the discovered streams for the configured domains, as a
// rendered markdown table on a terminal or tab-separated lines when piped.
func Datasets(opts DatasetsOptions) error {
	logger := createLogger(opts.Debug)

	if tui.IsTerminal() {
		tui.PrintBanner(tapsocrata.Version)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := ResolveCatalog(ctx, opts.ConfigPath, opts.CatalogPath, logger)
	if err != nil {
		return err
	}

	if !tui.IsTerminal() {
		for _, stream := range catalog.Streams {
			fmt.Printf("%s\t%s\t%s\n",
				stream.TapStreamID,
				stream.MetaString(discovery.MetaDomain),
				stream.ReplicationMethod(),
			)
		}
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Discovered datasets (%d)\n\n", len(catalog.Streams))
	b.WriteString("| Stream | Domain | Replication | Updated |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	for _, stream := range catalog.Streams {
		updated := stream.MetaString(discovery.MetaDataUpdatedAt)
		if updated == "" {
			updated = "-"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s |\n",
			stream.TapStreamID,
			stream.MetaString(discovery.MetaDomain),
			replicationLabel(stream),
			updated,
		)
	}

	render := tui.NewRenderer()
	out, err := render(b.String())
	if err != nil {
		fmt.Println(b.String())
		return nil
	}
	fmt.Print(out)
	return nil
}

func replicationLabel(stream *singer.Stream) string {
	if stream.ReplicationMethod() == singer.ReplicationIncremental {
		return "INCREMENTAL (" + stream.MetaString(singer.MetaReplicationKey) + ")"
	}
	return singer.ReplicationFullTable
}
