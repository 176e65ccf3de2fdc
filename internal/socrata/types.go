package socrata

// Dataset is one entry from the discovery catalog API.
type Dataset struct {
	Resource Resource        `json:"resource"`
	Metadata DatasetMetadata `json:"metadata"`
}

// Resource carries the dataset's identity and column layout.
type Resource struct {
	Name            string   `json:"name"`
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Description     string   `json:"description"`
	ColumnsName     []string `json:"columns_name"`
	ColumnsDatatype []string `json:"columns_datatype"`
	DataUpdatedAt   string   `json:"data_updated_at"`
}

// DatasetMetadata carries the hosting domain of the dataset.
type DatasetMetadata struct {
	Domain string `json:"domain"`
}

type catalogPage struct {
	Results []Dataset `json:"results"`
}

// geoPage is the GeoJSON FeatureCollection shape returned for map datasets.
type geoPage struct {
	Features []map[string]any `json:"features"`
}
