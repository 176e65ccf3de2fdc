package singer_test

import (
	"encoding/json"
	"testing"

	"github.com/aretw0/tap-socrata/pkg/singer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_Selection(t *testing.T) {
	t.Run("selected by default", func(t *testing.T) {
		s := &singer.Stream{}
		assert.True(t, s.IsSelected())
	})

	t.Run("explicit deselect wins", func(t *testing.T) {
		s := &singer.Stream{}
		s.StreamMetadata()[singer.MetaSelectedByDefault] = true
		s.StreamMetadata()[singer.MetaSelected] = false
		assert.False(t, s.IsSelected())
	})

	t.Run("selected-by-default false", func(t *testing.T) {
		s := &singer.Stream{}
		s.StreamMetadata()[singer.MetaSelectedByDefault] = false
		assert.False(t, s.IsSelected())
	})
}

func TestStream_ReplicationMethod(t *testing.T) {
	s := &singer.Stream{}
	assert.Equal(t, singer.ReplicationFullTable, s.ReplicationMethod())

	s.ReplicationKey = "_data_updated_at"
	assert.Equal(t, singer.ReplicationIncremental, s.ReplicationMethod())

	// Metadata overrides the stream field.
	s.StreamMetadata()[singer.MetaReplicationMethod] = singer.ReplicationFullTable
	assert.Equal(t, singer.ReplicationFullTable, s.ReplicationMethod())
}

func TestCatalog_GetStream(t *testing.T) {
	catalog := &singer.Catalog{Streams: []*singer.Stream{
		{TapStreamID: "a"},
		{TapStreamID: "b"},
	}}

	s, err := catalog.GetStream("b")
	require.NoError(t, err)
	assert.Equal(t, "b", s.TapStreamID)

	_, err = catalog.GetStream("missing")
	assert.Error(t, err)
}

func TestCatalog_RoundTrip(t *testing.T) {
	stream := &singer.Stream{
		TapStreamID: "crimes_ijzp_q8t2",
		Stream:      "crimes_ijzp_q8t2",
		Schema: &singer.Schema{
			Type: singer.TypeList{"object"},
			Properties: map[string]*singer.Schema{
				"id":   {Type: singer.TypeList{"null", "string"}},
				"date": {Type: singer.TypeList{"null", "string"}, Format: "date-time"},
			},
		},
		KeyProperties:  []string{"id"},
		ReplicationKey: "_data_updated_at",
	}
	stream.StreamMetadata()["socrata.domain"] = "data.cityofchicago.org"

	data, err := json.Marshal(&singer.Catalog{Streams: []*singer.Stream{stream}})
	require.NoError(t, err)

	var decoded singer.Catalog
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded.Streams, 1)

	got := decoded.Streams[0]
	assert.Equal(t, "crimes_ijzp_q8t2", got.TapStreamID)
	assert.Equal(t, "date-time", got.Schema.Properties["date"].Format)
	assert.Equal(t, "data.cityofchicago.org", got.MetaString("socrata.domain"))
}

func TestTypeList_Marshal(t *testing.T) {
	single, err := json.Marshal(singer.TypeList{"object"})
	require.NoError(t, err)
	assert.Equal(t, `"object"`, string(single))

	many, err := json.Marshal(singer.TypeList{"null", "string"})
	require.NoError(t, err)
	assert.Equal(t, `["null","string"]`, string(many))
}

func TestTypeList_Unmarshal(t *testing.T) {
	var tl singer.TypeList
	require.NoError(t, json.Unmarshal([]byte(`"object"`), &tl))
	assert.Equal(t, singer.TypeList{"object"}, tl)

	require.NoError(t, json.Unmarshal([]byte(`["null","number"]`), &tl))
	assert.Equal(t, singer.TypeList{"null", "number"}, tl)
	assert.True(t, tl.Nullable())

	assert.Error(t, json.Unmarshal([]byte(`42`), &tl))
}
