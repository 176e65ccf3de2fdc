// Package discovery turns Socrata catalog metadata into a Singer catalog.
package discovery

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tap-socrata/internal/socrata"
	"github.com/aretw0/tap-socrata/pkg/singer"
)

// Stream-level metadata keys specific to this tap. They ride along in the
// catalog so sync mode knows where each stream lives upstream.
const (
	MetaDomain        = "socrata.domain"
	MetaDatasetID     = "socrata.dataset-id"
	MetaDatasetType   = "socrata.dataset-type"
	MetaDataUpdatedAt = "socrata.data-updated-at"
	MetaDescription   = "socrata.description"
)

// ReplicationKeyField is the synthetic replication key injected into every
// record of an incremental stream. The value is the dataset-level
// data_updated_at timestamp, so bookmarks advance per dataset, not per row.
const ReplicationKeyField = "_data_updated_at"

// Discovery timestamps usually carry fractional seconds; some domains omit
// them.
const updatedAtLayout = "2006-01-02T15:04:05.000Z"

// ParseUpdatedAt parses a discovery data_updated_at timestamp as UTC.
func ParseUpdatedAt(value string) (time.Time, error) {
	if ts, err := time.Parse(updatedAtLayout, value); err == nil {
		return ts.UTC(), nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized data_updated_at %q: %w", value, err)
	}
	return ts.UTC(), nil
}

// BuildCatalog maps discovery results onto a Singer catalog. Datasets that
// cannot be mapped are skipped with a warning, never fatally: one malformed
// dataset must not hide the rest of a domain.
func BuildCatalog(datasets []socrata.Dataset, logger *slog.Logger) *singer.Catalog {
	if logger == nil {
		logger = slog.Default()
	}

	catalog := &singer.Catalog{Streams: []*singer.Stream{}}

	for _, dataset := range datasets {
		stream, err := buildStream(dataset)
		if err != nil {
			logger.Warn("failed to create stream for dataset",
				"dataset_id", dataset.Resource.ID, "err", err)
			continue
		}
		catalog.Streams = append(catalog.Streams, stream)
	}

	return catalog
}

func buildStream(dataset socrata.Dataset) (*singer.Stream, error) {
	resource := dataset.Resource

	if resource.ID == "" {
		return nil, fmt.Errorf("resource has no id")
	}
	if len(resource.ColumnsDatatype) < len(resource.ColumnsName) {
		return nil, fmt.Errorf("column names and datatypes disagree (%d vs %d)",
			len(resource.ColumnsName), len(resource.ColumnsDatatype))
	}

	schema := singer.ObjectSchema()
	for i, colName := range resource.ColumnsName {
		schema.Properties[FieldName(colName)] = ColumnSchema(resource.ColumnsDatatype[i])
	}

	streamName := SanitizeStreamName(resource.Name, resource.ID)

	// Incremental replication keys off the dataset-level update timestamp.
	var replicationKey string
	var updatedAt time.Time
	if resource.DataUpdatedAt != "" {
		ts, err := ParseUpdatedAt(resource.DataUpdatedAt)
		if err != nil {
			return nil, err
		}
		updatedAt = ts
		replicationKey = ReplicationKeyField
		schema.Properties[ReplicationKeyField] = &singer.Schema{
			Type:   singer.TypeList{"null", "string"},
			Format: "date-time",
		}
	}

	var keyProperties []string
	for _, candidate := range []string{"id", "case_id", "record_id"} {
		if schema.HasProperty(candidate) {
			keyProperties = []string{candidate}
			break
		}
	}

	stream := &singer.Stream{
		TapStreamID:    streamName,
		Stream:         streamName,
		Schema:         schema,
		KeyProperties:  keyProperties,
		ReplicationKey: replicationKey,
	}

	md := stream.StreamMetadata()
	md[singer.MetaInclusion] = "available"
	md[singer.MetaSelectedByDefault] = true
	md[singer.MetaTableKeyProperties] = keyProperties
	md[MetaDomain] = dataset.Metadata.Domain
	md[MetaDatasetID] = resource.ID
	md[MetaDatasetType] = resource.Type
	if resource.Description != "" {
		md[MetaDescription] = resource.Description
	}
	if replicationKey != "" {
		md[singer.MetaReplicationMethod] = singer.ReplicationIncremental
		md[singer.MetaReplicationKey] = replicationKey
		md[MetaDataUpdatedAt] = updatedAt.Format(time.RFC3339)
	} else {
		md[singer.MetaReplicationMethod] = singer.ReplicationFullTable
	}

	return stream, nil
}

// RecordFormat returns the SODA response format for a stream: map datasets
// are only served as GeoJSON.
func RecordFormat(stream *singer.Stream) string {
	if stream.MetaString(MetaDatasetType) == "map" {
		return "geojson"
	}
	return "json"
}
