package ports

import (
	"context"
	"errors"

	"github.com/aretw0/tap-socrata/pkg/singer"
)

// ErrStateNotFound is returned by StateStore.Load when no state exists for
// the given run ID.
var ErrStateNotFound = errors.New("state not found")

// StateStore persists tap state between runs, keyed by a run ID. Singer
// orchestrators usually capture STATE messages from stdout themselves; a
// StateStore is the optional mirror that lets unattended runs resume without
// one.
type StateStore interface {
	// Save persists the state for a given run ID.
	Save(ctx context.Context, runID string, state *singer.State) error

	// Load retrieves the state for a given run ID.
	// Returns ErrStateNotFound if no state has been saved.
	Load(ctx context.Context, runID string) (*singer.State, error)

	// Delete removes the state for a given run ID.
	Delete(ctx context.Context, runID string) error

	// List returns the run IDs with persisted state.
	List(ctx context.Context) ([]string, error)
}
