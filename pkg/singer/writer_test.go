package singer_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/tap-socrata/pkg/singer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_SchemaMessage(t *testing.T) {
	var buf bytes.Buffer
	w := singer.NewWriter(&buf)

	schema := singer.ObjectSchema()
	schema.Properties["id"] = &singer.Schema{Type: singer.TypeList{"null", "string"}}

	require.NoError(t, w.WriteSchema("crimes_ijzp_q8t2", schema, []string{"id"}, []string{"_data_updated_at"}))
	require.NoError(t, w.Flush())

	line := strings.TrimSpace(buf.String())
	assert.JSONEq(t, `{
		"type": "SCHEMA",
		"stream": "crimes_ijzp_q8t2",
		"schema": {"type": "object", "properties": {"id": {"type": ["null", "string"]}}},
		"key_properties": ["id"],
		"bookmark_properties": ["_data_updated_at"]
	}`, line)
}

func TestWriter_SchemaMessage_EmptyKeyProperties(t *testing.T) {
	var buf bytes.Buffer
	w := singer.NewWriter(&buf)

	require.NoError(t, w.WriteSchema("s", singer.ObjectSchema(), nil, nil))
	require.NoError(t, w.Flush())

	// key_properties must be present even when empty.
	assert.Contains(t, buf.String(), `"key_properties":[]`)
	assert.NotContains(t, buf.String(), "bookmark_properties")
}

func TestWriter_RecordMessage(t *testing.T) {
	var buf bytes.Buffer
	w := singer.NewWriter(&buf)

	extracted := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	record := map[string]any{"id": "1", "url": "https://example.org/a?b=c"}
	require.NoError(t, w.WriteRecord("crimes", record, extracted))
	require.NoError(t, w.Flush())

	var msg map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &msg))
	assert.Equal(t, "RECORD", msg["type"])
	assert.Equal(t, "crimes", msg["stream"])
	assert.Equal(t, "2026-08-31T10:00:00Z", msg["time_extracted"])

	// URLs must not be HTML-escaped.
	assert.Contains(t, buf.String(), "https://example.org/a?b=c")
}

func TestWriter_StateMessage(t *testing.T) {
	var buf bytes.Buffer
	w := singer.NewWriter(&buf)

	state := singer.NewState()
	state.SetBookmark("crimes", singer.Bookmark{
		ReplicationKey:      "_data_updated_at",
		ReplicationKeyValue: "2026-07-15T08:30:00Z",
	})
	require.NoError(t, w.WriteState(state))
	require.NoError(t, w.Flush())

	assert.JSONEq(t, `{
		"type": "STATE",
		"value": {"bookmarks": {"crimes": {"replication_key": "_data_updated_at", "replication_key_value": "2026-07-15T08:30:00Z"}}}
	}`, strings.TrimSpace(buf.String()))
}

func TestWriter_ActivateVersion(t *testing.T) {
	var buf bytes.Buffer
	w := singer.NewWriter(&buf)

	require.NoError(t, w.WriteActivateVersion("parks", 1756641600000))
	require.NoError(t, w.Flush())

	assert.JSONEq(t, `{"type": "ACTIVATE_VERSION", "stream": "parks", "version": 1756641600000}`,
		strings.TrimSpace(buf.String()))
}

func TestWriter_OneMessagePerLine(t *testing.T) {
	var buf bytes.Buffer
	w := singer.NewWriter(&buf)

	require.NoError(t, w.WriteState(singer.NewState()))
	require.NoError(t, w.WriteState(singer.NewState()))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 2)
	for _, line := range lines {
		var msg map[string]any
		assert.NoError(t, json.Unmarshal([]byte(line), &msg))
	}
}
