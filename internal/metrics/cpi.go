// Package metrics derives the marketing KPI tables (CPI, ARPU, ROAS) from
// the day's ingested tables.
package metrics

import (
	"fmt"
	"sort"

	"admetrics/internal/model"
)

// dimensionKeys maps each attribution dimension to the install and cost
// fields it joins on.
var dimensionKeys = map[string]struct {
	install func(model.InstallRecord) string
	cost    func(model.CostRow) string
}{
	"medium":       {func(r model.InstallRecord) string { return r.Medium }, func(c model.CostRow) string { return c.Medium }},
	"ad_group":     {func(r model.InstallRecord) string { return r.AdGroup }, func(c model.CostRow) string { return c.AdGroup }},
	"channel":      {func(r model.InstallRecord) string { return r.Channel }, func(c model.CostRow) string { return c.Channel }},
	"campaign":     {func(r model.InstallRecord) string { return r.Campaign }, func(c model.CostRow) string { return c.Campaign }},
	"landing_page": {func(r model.InstallRecord) string { return r.LandingPage }, func(c model.CostRow) string { return c.LandingPage }},
	"keyword":      {func(r model.InstallRecord) string { return r.Keyword }, func(c model.CostRow) string { return c.Keyword }},
	"ad_content":   {func(r model.InstallRecord) string { return r.AdContent }, func(c model.CostRow) string { return c.AdContent }},
	"location":     {func(r model.InstallRecord) string { return r.Alpha2 }, costLocation},
}

// costLocation normalizes the cost feed's location to the alpha-2
// convention installs use. The feed writes the United Kingdom as "UK";
// ISO 3166 alpha-2 is "GB".
func costLocation(c model.CostRow) string {
	if c.Location == "UK" {
		return "GB"
	}
	return c.Location
}

// ComputeCPI computes cost-per-install rows for one dimension: for every
// distinct value observed among installs, the install count, the summed
// spend of cost rows matching that value, and their ratio. Values with no
// installs produce no row. Rows come back sorted by value.
func ComputeCPI(dimension string, installs []model.InstallRecord, costs []model.CostRow) ([]model.CPIRow, error) {
	keys, ok := dimensionKeys[dimension]
	if !ok {
		return nil, fmt.Errorf("unknown dimension %q", dimension)
	}

	counts := make(map[string]int64)
	for _, r := range installs {
		counts[keys.install(r)]++
	}

	spend := make(map[string]float64)
	for _, c := range costs {
		spend[keys.cost(c)] += c.Cost
	}

	rows := make([]model.CPIRow, 0, len(counts))
	for value, n := range counts {
		rows = append(rows, model.CPIRow{
			Dimension:        dimension,
			Value:            value,
			InstallsCount:    n,
			TotalAmountSpent: spend[value],
			CPI:              spend[value] / float64(n),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Value < rows[j].Value })
	return rows, nil
}
