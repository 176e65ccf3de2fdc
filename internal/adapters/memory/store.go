package memory

import (
	"context"
	"sync"

	"github.com/aretw0/tap-socrata/pkg/ports"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// Store implements ports.StateStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*singer.State
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*singer.State),
	}
}

func copyState(state *singer.State) *singer.State {
	copied := singer.NewState()
	for id, b := range state.Bookmarks {
		copied.Bookmarks[id] = b
	}
	return copied
}

// Save persists the state in memory.
func (s *Store) Save(ctx context.Context, runID string, state *singer.State) error {
	// Copy to ensure isolation, similar to serialization.
	copied := copyState(state)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[runID] = copied
	return nil
}

// Load retrieves the state from memory.
func (s *Store) Load(ctx context.Context, runID string) (*singer.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.data[runID]
	if !ok {
		return nil, ports.ErrStateNotFound
	}

	// Copy on read so the caller can't mutate store state by pointer.
	return copyState(state), nil
}

// Delete removes the state.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns the run IDs with persisted state.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := make([]string, 0, len(s.data))
	for id := range s.data {
		runs = append(runs, id)
	}
	return runs, nil
}
