package socrata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aretw0/tap-socrata/pkg/ports"
)

// FetchPage returns one page of records from the SODA resource API.
// Paging is stable: records are ordered by the internal :id column.
func (c *Client) FetchPage(ctx context.Context, req ports.PageRequest) ([]map[string]any, error) {
	format := req.Format
	if format == "" {
		format = "json"
	}
	limit := req.Limit
	if limit <= 0 {
		limit = c.pageLimit
	}

	endpoint := fmt.Sprintf("https://%s/resource/%s.%s", req.Domain, req.DatasetID, format)

	params := url.Values{}
	params.Set("$order", ":id")
	params.Set("$limit", strconv.Itoa(limit))
	if req.Offset > 0 {
		params.Set("$offset", strconv.Itoa(req.Offset))
	}

	body, err := c.get(ctx, "resource", endpoint, params)
	if err != nil {
		return nil, fmt.Errorf("fetching %s page at offset %d: %w", req.DatasetID, req.Offset, err)
	}

	if format == "geojson" {
		var page geoPage
		if err := decodeNumbers(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse geojson page for %s: %w", req.DatasetID, err)
		}
		return page.Features, nil
	}

	var records []map[string]any
	if err := decodeNumbers(body, &records); err != nil {
		return nil, fmt.Errorf("failed to parse record page for %s: %w", req.DatasetID, err)
	}
	return records, nil
}

// decodeNumbers unmarshals with json.Number so Socrata's numeric strings and
// high-precision numbers survive re-encoding unchanged.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
