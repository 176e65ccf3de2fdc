package ports

import "context"

// PageRequest identifies one page of records for a Socrata dataset.
type PageRequest struct {
	Domain    string
	DatasetID string
	Format    string // "json" or "geojson"
	Offset    int
	Limit     int
}

// RecordSource fetches pages of raw records from the upstream API. The sync
// engine owns paging (next offset, termination); the source owns transport.
type RecordSource interface {
	FetchPage(ctx context.Context, req PageRequest) ([]map[string]any, error)
}
