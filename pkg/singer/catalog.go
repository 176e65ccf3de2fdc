package singer

import "fmt"

// Replication methods recognized in stream metadata.
const (
	ReplicationIncremental = "INCREMENTAL"
	ReplicationFullTable   = "FULL_TABLE"
)

// Well-known stream metadata keys.
const (
	MetaSelected           = "selected"
	MetaSelectedByDefault  = "selected-by-default"
	MetaInclusion          = "inclusion"
	MetaReplicationMethod  = "replication-method"
	MetaReplicationKey     = "replication-key"
	MetaTableKeyProperties = "table-key-properties"
)

// Catalog is the Singer catalog document produced by discovery and consumed
// by sync mode.
type Catalog struct {
	Streams []*Stream `json:"streams"`
}

// Stream describes one discoverable stream: its wire schema plus a metadata
// list keyed by breadcrumb, per the Singer catalog format.
type Stream struct {
	TapStreamID    string          `json:"tap_stream_id"`
	Stream         string          `json:"stream"`
	Schema         *Schema         `json:"schema"`
	KeyProperties  []string        `json:"key_properties,omitempty"`
	ReplicationKey string          `json:"replication_key,omitempty"`
	Metadata       []MetadataEntry `json:"metadata"`
}

// MetadataEntry attaches a metadata map to a position in the stream schema.
// An empty breadcrumb addresses the stream itself.
type MetadataEntry struct {
	Breadcrumb []string       `json:"breadcrumb"`
	Metadata   map[string]any `json:"metadata"`
}

// GetStream returns the stream with the given tap_stream_id.
func (c *Catalog) GetStream(tapStreamID string) (*Stream, error) {
	for _, s := range c.Streams {
		if s.TapStreamID == tapStreamID {
			return s, nil
		}
	}
	return nil, fmt.Errorf("stream %q not found in catalog", tapStreamID)
}

// StreamMetadata returns the stream-level metadata map (empty breadcrumb),
// creating the entry if it does not exist yet.
func (s *Stream) StreamMetadata() map[string]any {
	for i := range s.Metadata {
		if len(s.Metadata[i].Breadcrumb) == 0 {
			if s.Metadata[i].Metadata == nil {
				s.Metadata[i].Metadata = map[string]any{}
			}
			return s.Metadata[i].Metadata
		}
	}
	entry := MetadataEntry{Breadcrumb: []string{}, Metadata: map[string]any{}}
	s.Metadata = append(s.Metadata, entry)
	return s.Metadata[len(s.Metadata)-1].Metadata
}

// IsSelected reports whether the stream should be synced. Streams are synced
// unless explicitly deselected, honoring "selected" first and falling back to
// "selected-by-default".
func (s *Stream) IsSelected() bool {
	md := s.StreamMetadata()
	if v, ok := md[MetaSelected].(bool); ok {
		return v
	}
	if v, ok := md[MetaSelectedByDefault].(bool); ok {
		return v
	}
	return true
}

// ReplicationMethod resolves the effective replication method, preferring
// metadata over the stream-level replication key.
func (s *Stream) ReplicationMethod() string {
	if v, ok := s.StreamMetadata()[MetaReplicationMethod].(string); ok && v != "" {
		return v
	}
	if s.ReplicationKey != "" {
		return ReplicationIncremental
	}
	return ReplicationFullTable
}

// MetaString reads a string value from the stream-level metadata.
func (s *Stream) MetaString(key string) string {
	v, _ := s.StreamMetadata()[key].(string)
	return v
}
