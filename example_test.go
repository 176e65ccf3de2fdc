package tapsocrata_test

import (
	"context"
	"log"
	"os"

	tapsocrata "github.com/aretw0/tap-socrata"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// ExampleNew shows the minimal discover-then-sync loop a host application
// would run. Settings use the same shape as the config file.
func ExampleNew() {
	tap, err := tapsocrata.New(map[string]any{
		"domains": []string{"data.cityofchicago.org"},
	})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	catalog, err := tap.Discover(ctx)
	if err != nil {
		log.Fatal(err)
	}

	writer := singer.NewWriter(os.Stdout)
	if err := tap.Sync(ctx, catalog, singer.NewState(), writer); err != nil {
		log.Fatal(err)
	}
}
