package model

// CostRow is one ad-spend line for a combination of attribution dimensions.
type CostRow struct {
	Campaign    string
	Location    string
	AdGroup     string
	AdContent   string
	Keyword     string
	LandingPage string
	Medium      string
	Channel     string
	Cost        float64
}

// Dimensions lists the eight attribution axes CPI is computed over,
// in the order the derived tables are produced.
var Dimensions = []string{
	"ad_content",
	"ad_group",
	"campaign",
	"channel",
	"keyword",
	"landing_page",
	"location",
	"medium",
}
