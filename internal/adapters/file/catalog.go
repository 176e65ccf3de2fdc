package file

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/tap-socrata/pkg/singer"
)

// LoadCatalog reads a Singer catalog document from disk.
func LoadCatalog(path string) (*singer.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}

	var catalog singer.Catalog
	if err := json.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return &catalog, nil
}

// LoadState reads a Singer state document from disk, as passed via --state.
func LoadState(path string) (*singer.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read state %s: %w", path, err)
	}

	var state singer.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}
	return &state, nil
}
