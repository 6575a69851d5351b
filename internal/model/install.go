// Package model defines the typed records flowing through the attribution pipeline.
package model

import "time"

// InstallTimeLayout is the timestamp format used by the installs endpoint.
const InstallTimeLayout = "2006-01-02T15:04:05.000000"

// InstallRecord is one app install attributed to a marketing touchpoint.
type InstallRecord struct {
	InstallTime    time.Time `json:"-"`
	MarketingID    string    `json:"marketing_id"`
	Channel        string    `json:"channel"`
	Medium         string    `json:"medium"`
	Campaign       string    `json:"campaign"`
	Keyword        string    `json:"keyword"`
	AdContent      string    `json:"ad_content"`
	AdGroup        string    `json:"ad_group"`
	LandingPage    string    `json:"landing_page"`
	Sex            string    `json:"sex"`
	Alpha2         string    `json:"alpha_2"`
	Alpha3         string    `json:"alpha_3"`
	Flag           string    `json:"flag"`
	CountryName    string    `json:"name"`
	CountryNumeric string    `json:"numeric"`
	OfficialName   string    `json:"official_name"`

	// RawInstallTime carries the wire value; InstallTime is parsed from it
	// at the ingestion boundary.
	RawInstallTime string `json:"install_time"`
}
