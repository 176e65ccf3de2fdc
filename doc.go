/*
Package tapsocrata is a Singer tap for the Socrata open data API.

It discovers datasets across Socrata-hosted domains, derives a Singer catalog
(JSON schemas, key properties, replication metadata) from each dataset's
column definitions, and syncs records as Singer SCHEMA/RECORD/STATE messages
on stdout. Any Singer target can consume the stream.

# Architecture

The tap follows a ports-and-adapters layout. The core sync engine depends
only on small interfaces (ports.RecordSource, ports.StateStore); the Socrata
HTTP client and the file/memory/redis state stores are adapters behind them.
This keeps the engine testable with fakes and lets hosts swap the pieces
they care about.

# Usage

Construct a Tap from a raw settings map (the same shape as the config file),
then discover and sync:

	package main

	import (
		"context"
		"log"
		"os"

		tapsocrata "github.com/aretw0/tap-socrata"
		"github.com/aretw0/tap-socrata/pkg/singer"
	)

	func main() {
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

The `tap-socrata` command in cmd/tap-socrata wraps the same API for use with
Meltano or a raw `tap | target` pipe.
*/
package tapsocrata
