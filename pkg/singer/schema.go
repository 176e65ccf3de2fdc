package singer

import (
	"encoding/json"
	"fmt"
)

// TypeList holds the JSON Schema "type" keyword, which may be a single string
// or a list of strings on the wire. A single entry marshals as a bare string.
type TypeList []string

// MarshalJSON emits a bare string for single-type lists, matching the
// conventional Singer schema output.
func (t TypeList) MarshalJSON() ([]byte, error) {
	if len(t) == 1 {
		return json.Marshal(t[0])
	}
	return json.Marshal([]string(t))
}

// UnmarshalJSON accepts both the string and array forms.
func (t *TypeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*t = TypeList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("invalid JSON schema type: %s", data)
	}
	*t = TypeList(many)
	return nil
}

// Nullable reports whether "null" is an allowed type.
func (t TypeList) Nullable() bool {
	for _, name := range t {
		if name == "null" {
			return true
		}
	}
	return false
}

// Schema is the subset of JSON Schema the tap emits. Socrata column types map
// onto scalar types, date-time strings and a handful of fixed object shapes,
// so the full draft vocabulary is not needed.
type Schema struct {
	Type       TypeList           `json:"type,omitempty"`
	Format     string             `json:"format,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
}

// ObjectSchema returns an empty object schema ready to receive properties.
func ObjectSchema() *Schema {
	return &Schema{
		Type:       TypeList{"object"},
		Properties: map[string]*Schema{},
	}
}

// HasProperty reports whether a top-level property is declared.
func (s *Schema) HasProperty(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.Properties[name]
	return ok
}
