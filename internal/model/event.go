package model

// EventRecord is one in-app analytics event. Optional wire fields that the
// store persists as NULL are pointers.
type EventRecord struct {
	UserID             string   `json:"user_id"`
	Alpha2             string   `json:"alpha_2"`
	Alpha3             string   `json:"alpha_3"`
	Flag               string   `json:"flag"`
	CountryName        string   `json:"name"`
	CountryNumeric     string   `json:"numeric"`
	OfficialName       *string  `json:"official_name"`
	OS                 string   `json:"os"`
	Brand              string   `json:"brand"`
	Model              string   `json:"model"`
	ModelNumber        float64  `json:"model_number"`
	Specification      string   `json:"specification"`
	EventType          string   `json:"event_type"`
	Location           *string  `json:"location"`
	UserActionDetail   string   `json:"user_action_detail"`
	SessionNumber      *string  `json:"session_number"`
	LocalizationID     string   `json:"localization_id"`
	GASessionID        string   `json:"ga_session_id"`
	Value              float64  `json:"value"`
	State              float64  `json:"state"`
	EngagementTimeMsec float64  `json:"engagement_time_msec"`
	CurrentProgress    *string  `json:"current_progress"`
	EventOrigin        string   `json:"event_origin"`
	Place              float64  `json:"place"`
	Selection          *string  `json:"selection"`
	AnalyticsStorage   string   `json:"analytics_storage"`
	Browser            *string  `json:"browser"`
	InstallStore       *string  `json:"install_store"`

	// RawEventTime is the wire value, milliseconds since the Unix epoch.
	// EventTime is the derived wall-clock time of day ("15:04:05").
	RawEventTime float64 `json:"event_time"`
	EventTime    string  `json:"-"`

	// UserParams is the nested attribution snapshot, present on a subset
	// of events. UserParamsRef is assigned by the flattener.
	UserParams    *UserParams `json:"user_params"`
	UserParamsRef *int64      `json:"-"`
}

// UserParams is the marketing/session attribution snapshot attached to an
// event, split into its own table during ingestion.
type UserParams struct {
	ID            int64   `json:"-"`
	OS            string  `json:"os"`
	Brand         string  `json:"brand"`
	Model         string  `json:"model"`
	ModelNumber   float64 `json:"model_number"`
	Specification string  `json:"specification"`
	TransactionID *string `json:"transaction_id"`
	CampaignName  *string `json:"campaign_name"`
	Source        *string `json:"source"`
	Medium        *string `json:"medium"`
	Term          *string `json:"term"`
	Context       *string `json:"context"`
	GCLID         *string `json:"gclid"`
	DCLID         *string `json:"dclid"`
	SRSLTID       *string `json:"srsltid"`
	IsActiveUser  *string `json:"is_active_user"`
	MarketingID   string  `json:"marketing_id"`
}
