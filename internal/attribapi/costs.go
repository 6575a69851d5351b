package attribapi

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"admetrics/internal/model"
)

// costDimensions is the dimensions query parameter sent to the costs
// endpoint.
const costDimensions = "location,campaign,channel,medium,keyword,ad_content,ad_group,landing_page"

// FetchCosts returns the day's ad-spend rows. The endpoint answers with
// tab-separated text: a header line naming the columns, then one line per
// dimension combination, with a blank trailing line.
func (c *Client) FetchCosts(ctx context.Context, date time.Time) ([]model.CostRow, error) {
	q := dateQuery(date)
	q.Set("dimensions", costDimensions)

	body, err := c.get(ctx, "costs", q)
	if err != nil {
		return nil, err
	}
	return decodeCosts(string(body))
}

// decodeCosts parses the TSV payload. Columns are matched by header name
// rather than assumed position.
func decodeCosts(text string) ([]model.CostRow, error) {
	lines := strings.Split(text, "\n")
	if len(lines) < 1 || strings.TrimSpace(lines[0]) == "" {
		return nil, fmt.Errorf("attribapi: costs payload has no header")
	}

	header := strings.Split(strings.TrimRight(lines[0], "\r"), "\t")
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"campaign", "location", "ad_group", "ad_content", "keyword", "landing_page", "medium", "channel", "cost"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("attribapi: costs header missing %q column", required)
		}
	}

	var rows []model.CostRow
	for lineNo, line := range lines[1:] {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != len(header) {
			return nil, fmt.Errorf("attribapi: costs line %d has %d fields, want %d", lineNo+2, len(fields), len(header))
		}

		cost, err := strconv.ParseFloat(fields[index["cost"]], 64)
		if err != nil {
			return nil, fmt.Errorf("attribapi: costs line %d: bad cost %q: %w", lineNo+2, fields[index["cost"]], err)
		}

		rows = append(rows, model.CostRow{
			Campaign:    fields[index["campaign"]],
			Location:    fields[index["location"]],
			AdGroup:     fields[index["ad_group"]],
			AdContent:   fields[index["ad_content"]],
			Keyword:     fields[index["keyword"]],
			LandingPage: fields[index["landing_page"]],
			Medium:      fields[index["medium"]],
			Channel:     fields[index["channel"]],
			Cost:        cost,
		})
	}
	return rows, nil
}
