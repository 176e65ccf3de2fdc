package singer

import "time"

// Message type discriminators as defined by the Singer specification.
const (
	TypeSchema          = "SCHEMA"
	TypeRecord          = "RECORD"
	TypeState           = "STATE"
	TypeActivateVersion = "ACTIVATE_VERSION"
)

// SchemaMessage announces the JSON schema of a stream. It must be emitted
// before the first RECORD of that stream.
type SchemaMessage struct {
	Type               string   `json:"type"`
	Stream             string   `json:"stream"`
	Schema             *Schema  `json:"schema"`
	KeyProperties      []string `json:"key_properties"`
	BookmarkProperties []string `json:"bookmark_properties,omitempty"`
}

// RecordMessage carries a single extracted record.
type RecordMessage struct {
	Type          string         `json:"type"`
	Stream        string         `json:"stream"`
	Record        map[string]any `json:"record"`
	Version       int64          `json:"version,omitempty"`
	TimeExtracted string         `json:"time_extracted,omitempty"`
}

// StateMessage carries the complete tap state. Targets echo the most recently
// processed STATE back to the orchestrator, so partial values are not allowed.
type StateMessage struct {
	Type  string `json:"type"`
	Value *State `json:"value"`
}

// ActivateVersionMessage signals that a full-table sync of a stream completed
// and records with older versions may be discarded downstream.
type ActivateVersionMessage struct {
	Type    string `json:"type"`
	Stream  string `json:"stream"`
	Version int64  `json:"version"`
}

// NewSchemaMessage builds a SCHEMA message for a stream.
func NewSchemaMessage(stream string, schema *Schema, keyProps, bookmarkProps []string) *SchemaMessage {
	if keyProps == nil {
		// Singer requires the field to be present, even when empty.
		keyProps = []string{}
	}
	return &SchemaMessage{
		Type:               TypeSchema,
		Stream:             stream,
		Schema:             schema,
		KeyProperties:      keyProps,
		BookmarkProperties: bookmarkProps,
	}
}

// NewRecordMessage builds a RECORD message stamped with the extraction time.
func NewRecordMessage(stream string, record map[string]any, extracted time.Time) *RecordMessage {
	msg := &RecordMessage{
		Type:   TypeRecord,
		Stream: stream,
		Record: record,
	}
	if !extracted.IsZero() {
		msg.TimeExtracted = extracted.UTC().Format(time.RFC3339Nano)
	}
	return msg
}

// NewStateMessage wraps the given state in a STATE message.
func NewStateMessage(state *State) *StateMessage {
	return &StateMessage{Type: TypeState, Value: state}
}

// NewActivateVersionMessage builds an ACTIVATE_VERSION message.
func NewActivateVersionMessage(stream string, version int64) *ActivateVersionMessage {
	return &ActivateVersionMessage{Type: TypeActivateVersion, Stream: stream, Version: version}
}
