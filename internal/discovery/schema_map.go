package discovery

import (
	"strings"

	"github.com/aretw0/tap-socrata/pkg/singer"
)

// ColumnSchema maps a Socrata column datatype to a JSON schema node.
// Unknown types fall back to a nullable string.
func ColumnSchema(colType string) *singer.Schema {
	switch strings.ToLower(colType) {
	case "number":
		// Socrata may return numbers as strings, accept both.
		return &singer.Schema{Type: singer.TypeList{"null", "string", "number"}}
	case "checkbox":
		return &singer.Schema{Type: singer.TypeList{"null", "boolean"}}
	case "fixed_timestamp", "floating_timestamp":
		return &singer.Schema{Type: singer.TypeList{"null", "string"}, Format: "date-time"}
	case "location":
		return &singer.Schema{
			Type: singer.TypeList{"null", "object"},
			Properties: map[string]*singer.Schema{
				"latitude":  {Type: singer.TypeList{"null", "string"}},
				"longitude": {Type: singer.TypeList{"null", "string"}},
				// human_address is a JSON string, not a nested object.
				"human_address": {Type: singer.TypeList{"null", "string"}},
			},
		}
	case "url":
		return &singer.Schema{
			Type: singer.TypeList{"null", "object"},
			Properties: map[string]*singer.Schema{
				"url":         {Type: singer.TypeList{"null", "string"}},
				"description": {Type: singer.TypeList{"null", "string"}},
			},
		}
	case "line", "multiline", "point", "multipoint", "polygon", "multipolygon":
		return &singer.Schema{
			Type: singer.TypeList{"null", "object"},
			Properties: map[string]*singer.Schema{
				"type":        {Type: singer.TypeList{"string"}},
				"coordinates": {Type: singer.TypeList{"array"}},
			},
		}
	default:
		return &singer.Schema{Type: singer.TypeList{"null", "string"}}
	}
}

// FieldName normalizes a Socrata column name into a schema property name.
func FieldName(col string) string {
	name := strings.ToLower(col)
	replacer := strings.NewReplacer(" ", "_", "(", "", ")", "", "-", "_")
	return replacer.Replace(name)
}

// SanitizeStreamName builds a stable, human-readable stream name from the
// dataset name and its four-by-four ID. The ID suffix guarantees uniqueness
// across datasets with identical names.
func SanitizeStreamName(name, id string) string {
	if name == "" {
		name = "unnamed"
	}

	lowered := strings.ToLower(name)
	replacer := strings.NewReplacer(
		" ", "_",
		"-", "_",
		"(", "",
		")", "",
		"/", "_",
		"\\", "_",
		".", "_",
	)
	lowered = replacer.Replace(lowered)

	var b strings.Builder
	for _, r := range lowered {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}

	return b.String() + "_" + strings.ReplaceAll(id, "-", "_")
}
