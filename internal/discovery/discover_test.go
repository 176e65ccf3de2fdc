package discovery_test

import (
	"testing"
	"time"

	"github.com/aretw0/tap-socrata/internal/discovery"
	"github.com/aretw0/tap-socrata/internal/logging"
	"github.com/aretw0/tap-socrata/internal/socrata"
	"github.com/aretw0/tap-socrata/pkg/singer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnSchema(t *testing.T) {
	tests := []struct {
		colType  string
		wantType singer.TypeList
		format   string
	}{
		{"text", singer.TypeList{"null", "string"}, ""},
		{"number", singer.TypeList{"null", "string", "number"}, ""},
		{"checkbox", singer.TypeList{"null", "boolean"}, ""},
		{"fixed_timestamp", singer.TypeList{"null", "string"}, "date-time"},
		{"floating_timestamp", singer.TypeList{"null", "string"}, "date-time"},
		{"location", singer.TypeList{"null", "object"}, ""},
		{"url", singer.TypeList{"null", "object"}, ""},
		{"polygon", singer.TypeList{"null", "object"}, ""},
		{"some_future_type", singer.TypeList{"null", "string"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.colType, func(t *testing.T) {
			schema := discovery.ColumnSchema(tt.colType)
			assert.Equal(t, tt.wantType, schema.Type)
			assert.Equal(t, tt.format, schema.Format)
		})
	}

	t.Run("location shape", func(t *testing.T) {
		schema := discovery.ColumnSchema("location")
		assert.True(t, schema.HasProperty("latitude"))
		assert.True(t, schema.HasProperty("longitude"))
		assert.True(t, schema.HasProperty("human_address"))
	})

	t.Run("geometry shape", func(t *testing.T) {
		schema := discovery.ColumnSchema("multipolygon")
		assert.True(t, schema.HasProperty("type"))
		assert.True(t, schema.HasProperty("coordinates"))
	})
}

func TestFieldName(t *testing.T) {
	assert.Equal(t, "case_number", discovery.FieldName("Case Number"))
	assert.Equal(t, "location_city", discovery.FieldName("Location (City)"))
	assert.Equal(t, "x_coordinate", discovery.FieldName("X-Coordinate"))
}

func TestSanitizeStreamName(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"Crimes - 2001 to Present", "ijzp-q8t2", "crimes___2001_to_present_ijzp_q8t2"},
		{"Food Inspections (Chicago)", "4ijn-s7e5", "food_inspections_chicago_4ijn_s7e5"},
		{"Traffic/Transit Data", "abcd-1234", "traffic_transit_data_abcd_1234"},
		{"", "abcd-1234", "unnamed_abcd_1234"},
		{"100% Café München", "wxyz-9876", "100_caf_mnchen_wxyz_9876"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, discovery.SanitizeStreamName(tt.name, tt.id), "name=%q", tt.name)
	}
}

func TestParseUpdatedAt(t *testing.T) {
	ts, err := discovery.ParseUpdatedAt("2026-07-15T08:30:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 15, 8, 30, 0, 0, time.UTC), ts)

	// Some domains omit fractional seconds.
	ts, err = discovery.ParseUpdatedAt("2026-07-15T08:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 7, 15, 8, 30, 0, 0, time.UTC), ts)

	_, err = discovery.ParseUpdatedAt("not-a-time")
	assert.Error(t, err)
}

func sampleDataset() socrata.Dataset {
	return socrata.Dataset{
		Resource: socrata.Resource{
			Name:            "Crimes - 2001 to Present",
			ID:              "ijzp-q8t2",
			Type:            "dataset",
			Description:     "Reported incidents of crime.",
			ColumnsName:     []string{"ID", "Case Number", "Date", "Latitude"},
			ColumnsDatatype: []string{"Number", "Text", "Floating_Timestamp", "Number"},
			DataUpdatedAt:   "2026-07-15T08:30:00.000Z",
		},
		Metadata: socrata.DatasetMetadata{Domain: "data.cityofchicago.org"},
	}
}

func TestBuildCatalog(t *testing.T) {
	catalog := discovery.BuildCatalog([]socrata.Dataset{sampleDataset()}, logging.NewNop())
	require.Len(t, catalog.Streams, 1)

	stream := catalog.Streams[0]
	assert.Equal(t, "crimes___2001_to_present_ijzp_q8t2", stream.TapStreamID)
	assert.Equal(t, []string{"id"}, stream.KeyProperties)
	assert.Equal(t, "_data_updated_at", stream.ReplicationKey)
	assert.True(t, stream.Schema.HasProperty("case_number"))
	assert.True(t, stream.Schema.HasProperty("_data_updated_at"))

	md := stream.StreamMetadata()
	assert.Equal(t, "data.cityofchicago.org", md[discovery.MetaDomain])
	assert.Equal(t, "ijzp-q8t2", md[discovery.MetaDatasetID])
	assert.Equal(t, singer.ReplicationIncremental, stream.ReplicationMethod())
	assert.Equal(t, "2026-07-15T08:30:00Z", md[discovery.MetaDataUpdatedAt])
	assert.True(t, stream.IsSelected())
}

func TestBuildCatalog_FullTableWithoutUpdatedAt(t *testing.T) {
	dataset := sampleDataset()
	dataset.Resource.DataUpdatedAt = ""

	catalog := discovery.BuildCatalog([]socrata.Dataset{dataset}, logging.NewNop())
	require.Len(t, catalog.Streams, 1)

	stream := catalog.Streams[0]
	assert.Empty(t, stream.ReplicationKey)
	assert.Equal(t, singer.ReplicationFullTable, stream.ReplicationMethod())
	assert.False(t, stream.Schema.HasProperty("_data_updated_at"))
}

func TestBuildCatalog_KeyFallbacks(t *testing.T) {
	dataset := sampleDataset()
	dataset.Resource.ColumnsName = []string{"Case ID", "Date"}
	dataset.Resource.ColumnsDatatype = []string{"Text", "Floating_Timestamp"}

	catalog := discovery.BuildCatalog([]socrata.Dataset{dataset}, logging.NewNop())
	require.Len(t, catalog.Streams, 1)
	assert.Equal(t, []string{"case_id"}, catalog.Streams[0].KeyProperties)

	dataset.Resource.ColumnsName = []string{"Date"}
	dataset.Resource.ColumnsDatatype = []string{"Floating_Timestamp"}
	catalog = discovery.BuildCatalog([]socrata.Dataset{dataset}, logging.NewNop())
	require.Len(t, catalog.Streams, 1)
	assert.Empty(t, catalog.Streams[0].KeyProperties)
}

func TestBuildCatalog_SkipsBrokenDatasets(t *testing.T) {
	broken := sampleDataset()
	broken.Resource.ColumnsDatatype = []string{"Number"} // fewer types than names

	noID := sampleDataset()
	noID.Resource.ID = ""

	catalog := discovery.BuildCatalog([]socrata.Dataset{broken, sampleDataset(), noID}, logging.NewNop())
	assert.Len(t, catalog.Streams, 1, "broken datasets are skipped, valid ones kept")
}

func TestRecordFormat(t *testing.T) {
	stream := &singer.Stream{}
	stream.StreamMetadata()[discovery.MetaDatasetType] = "map"
	assert.Equal(t, "geojson", discovery.RecordFormat(stream))

	stream = &singer.Stream{}
	stream.StreamMetadata()[discovery.MetaDatasetType] = "dataset"
	assert.Equal(t, "json", discovery.RecordFormat(stream))
}
