package socrata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Catalog pages through the discovery API and returns every dataset visible
// to the configured domains. An empty domain list searches all of Socrata.
func (c *Client) Catalog(ctx context.Context) ([]Dataset, error) {
	discoveryURL := c.DiscoveryURL()

	var all []Dataset
	offset := 0

	for {
		params := url.Values{}
		if len(c.domains) > 0 {
			params.Set("domains", strings.Join(c.domains, ","))
		}
		params.Set("offset", strconv.Itoa(offset))
		params.Set("limit", strconv.Itoa(c.catalogLimit))

		body, err := c.get(ctx, "catalog", discoveryURL, params)
		if err != nil {
			return nil, fmt.Errorf("catalog discovery failed at offset %d: %w", offset, err)
		}

		var page catalogPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("failed to parse catalog response: %w", err)
		}

		if len(page.Results) == 0 {
			break
		}

		all = append(all, page.Results...)
		offset += len(page.Results)

		c.logger.Debug("discovered catalog page", "datasets", len(page.Results), "offset", offset)
	}

	return all, nil
}
