package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/tap-socrata/pkg/ports"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// Store implements ports.StateStore using the local filesystem.
// It stores state as JSON files in a configured directory.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".tap-socrata/state".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".tap-socrata", "state")
	}
	return &Store{BasePath: basePath}
}

// Save persists the state to a JSON file atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it
// to the destination.
func (s *Store) Save(ctx context.Context, runID string, state *singer.State) error {
	if runID == "" {
		return fmt.Errorf("runID cannot be empty")
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure state directory: %w", err)
	}

	destPath := filepath.Join(s.BasePath, runID+".json")

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	// Same directory as the destination so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-"+runID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath) // no-op once renamed
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}

	// Cannot rename an open file on Windows.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows os.Rename fails if the destination exists, so remove first.
	// The delete+rename window is acceptable for CLI usage; a partial file
	// from a plain overwrite would not be.
	if _, err := os.Stat(destPath); err == nil {
		if err := os.Remove(destPath); err != nil {
			return fmt.Errorf("failed to remove existing state file for overwrite: %w", err)
		}
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file to state file: %w", err)
	}

	return nil
}

// Load retrieves the state from disk.
func (s *Store) Load(ctx context.Context, runID string) (*singer.State, error) {
	data, err := os.ReadFile(filepath.Join(s.BasePath, runID+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ports.ErrStateNotFound
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state singer.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}
	return &state, nil
}

// Delete removes the state file for a run.
func (s *Store) Delete(ctx context.Context, runID string) error {
	err := os.Remove(filepath.Join(s.BasePath, runID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete state file: %w", err)
	}
	return nil
}

// List returns the run IDs with a state file on disk.
func (s *Store) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list state directory: %w", err)
	}

	var runs []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") || strings.HasPrefix(name, "tmp-") {
			continue
		}
		runs = append(runs, strings.TrimSuffix(name, ".json"))
	}
	return runs, nil
}
