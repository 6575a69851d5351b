package store

import (
	"fmt"
	"time"

	"admetrics/internal/model"
)

// installTimeColumn is how install timestamps are rendered in the store.
const installTimeColumn = "2006-01-02 15:04:05"

func installColumns() []Column {
	return []Column{
		{Name: "install_time", Type: TypeText},
		{Name: "marketing_id", Type: TypeText},
		{Name: "channel", Type: TypeText},
		{Name: "medium", Type: TypeText},
		{Name: "campaign", Type: TypeText},
		{Name: "keyword", Type: TypeText},
		{Name: "ad_content", Type: TypeText},
		{Name: "ad_group", Type: TypeText},
		{Name: "landing_page", Type: TypeText},
		{Name: "sex", Type: TypeText},
		{Name: "alpha_2", Type: TypeText},
		{Name: "alpha_3", Type: TypeText},
		{Name: "flag", Type: TypeText},
		{Name: "country_name", Type: TypeText},
		{Name: "country_numeric", Type: TypeText},
		{Name: "official_name", Type: TypeText},
	}
}

// SaveInstalls writes the daily installs table, replacing any previous run
// for the same date.
func (s *Store) SaveInstalls(date time.Time, records []model.InstallRecord) error {
	t := Table{Columns: installColumns(), Rows: make([][]any, 0, len(records))}
	for _, r := range records {
		t.Rows = append(t.Rows, []any{
			r.InstallTime.Format(installTimeColumn),
			r.MarketingID, r.Channel, r.Medium, r.Campaign, r.Keyword,
			r.AdContent, r.AdGroup, r.LandingPage, r.Sex,
			r.Alpha2, r.Alpha3, r.Flag, r.CountryName, r.CountryNumeric, r.OfficialName,
		})
	}
	return s.ReplaceTable(DailyTableName("installs", date), t)
}

// LoadInstalls reads the daily installs table back as typed records.
func (s *Store) LoadInstalls(date time.Time) ([]model.InstallRecord, error) {
	t, err := s.ReadTable(DailyTableName("installs", date))
	if err != nil {
		return nil, err
	}

	records := make([]model.InstallRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		var r model.InstallRecord
		if ts := asString(row[0]); ts != "" {
			r.InstallTime, _ = time.Parse(installTimeColumn, ts)
		}
		r.MarketingID = asString(row[1])
		r.Channel = asString(row[2])
		r.Medium = asString(row[3])
		r.Campaign = asString(row[4])
		r.Keyword = asString(row[5])
		r.AdContent = asString(row[6])
		r.AdGroup = asString(row[7])
		r.LandingPage = asString(row[8])
		r.Sex = asString(row[9])
		r.Alpha2 = asString(row[10])
		r.Alpha3 = asString(row[11])
		r.Flag = asString(row[12])
		r.CountryName = asString(row[13])
		r.CountryNumeric = asString(row[14])
		r.OfficialName = asString(row[15])
		records = append(records, r)
	}
	return records, nil
}

func costColumns() []Column {
	return []Column{
		{Name: "campaign", Type: TypeText},
		{Name: "location", Type: TypeText},
		{Name: "ad_group", Type: TypeText},
		{Name: "ad_content", Type: TypeText},
		{Name: "keyword", Type: TypeText},
		{Name: "landing_page", Type: TypeText},
		{Name: "medium", Type: TypeText},
		{Name: "channel", Type: TypeText},
		{Name: "cost", Type: TypeReal},
	}
}

// SaveCosts writes the daily ad-spend table.
func (s *Store) SaveCosts(date time.Time, rows []model.CostRow) error {
	t := Table{Columns: costColumns(), Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Campaign, r.Location, r.AdGroup, r.AdContent, r.Keyword,
			r.LandingPage, r.Medium, r.Channel, r.Cost,
		})
	}
	return s.ReplaceTable(DailyTableName("costs", date), t)
}

// LoadCosts reads the daily ad-spend table back as typed rows.
func (s *Store) LoadCosts(date time.Time) ([]model.CostRow, error) {
	t, err := s.ReadTable(DailyTableName("costs", date))
	if err != nil {
		return nil, err
	}

	rows := make([]model.CostRow, 0, len(t.Rows))
	for _, row := range t.Rows {
		rows = append(rows, model.CostRow{
			Campaign:    asString(row[0]),
			Location:    asString(row[1]),
			AdGroup:     asString(row[2]),
			AdContent:   asString(row[3]),
			Keyword:     asString(row[4]),
			LandingPage: asString(row[5]),
			Medium:      asString(row[6]),
			Channel:     asString(row[7]),
			Cost:        asFloat(row[8]),
		})
	}
	return rows, nil
}

func userParamsColumns() []Column {
	return []Column{
		{Name: "id", Type: TypeInteger},
		{Name: "os", Type: TypeText},
		{Name: "brand", Type: TypeText},
		{Name: "model", Type: TypeText},
		{Name: "model_number", Type: TypeReal},
		{Name: "specification", Type: TypeText},
		{Name: "transaction_id", Type: TypeText},
		{Name: "campaign_name", Type: TypeText},
		{Name: "source", Type: TypeText},
		{Name: "medium", Type: TypeText},
		{Name: "term", Type: TypeText},
		{Name: "context", Type: TypeText},
		{Name: "gclid", Type: TypeText},
		{Name: "dclid", Type: TypeText},
		{Name: "srsltid", Type: TypeText},
		{Name: "is_active_user", Type: TypeText},
		{Name: "marketing_id", Type: TypeText},
	}
}

func eventColumns() []Column {
	return []Column{
		{Name: "user_id", Type: TypeText},
		{Name: "alpha_2", Type: TypeText},
		{Name: "alpha_3", Type: TypeText},
		{Name: "flag", Type: TypeText},
		{Name: "country_name", Type: TypeText},
		{Name: "country_numeric", Type: TypeText},
		{Name: "official_name", Type: TypeText},
		{Name: "os", Type: TypeText},
		{Name: "brand", Type: TypeText},
		{Name: "model", Type: TypeText},
		{Name: "model_number", Type: TypeReal},
		{Name: "specification", Type: TypeText},
		{Name: "event_time", Type: TypeText},
		{Name: "event_type", Type: TypeText},
		{Name: "location", Type: TypeText},
		{Name: "user_action_detail", Type: TypeText},
		{Name: "session_number", Type: TypeText},
		{Name: "localization_id", Type: TypeText},
		{Name: "ga_session_id", Type: TypeText},
		{Name: "value", Type: TypeReal},
		{Name: "state", Type: TypeReal},
		{Name: "engagement_time_msec", Type: TypeReal},
		{Name: "current_progress", Type: TypeText},
		{Name: "event_origin", Type: TypeText},
		{Name: "place", Type: TypeReal},
		{Name: "selection", Type: TypeText},
		{Name: "analytics_storage", Type: TypeText},
		{Name: "browser", Type: TypeText},
		{Name: "install_store", Type: TypeText},
		{Name: "user_params", Type: TypeInteger},
	}
}

// SaveEvents writes the daily events table and its companion user-params
// table in one pass. Events must already be flattened (references assigned,
// nested snapshots extracted).
func (s *Store) SaveEvents(date time.Time, events []model.EventRecord, params []model.UserParams) error {
	pt := Table{Columns: userParamsColumns(), Rows: make([][]any, 0, len(params))}
	for _, p := range params {
		pt.Rows = append(pt.Rows, []any{
			p.ID, p.OS, p.Brand, p.Model, p.ModelNumber, p.Specification,
			optString(p.TransactionID), optString(p.CampaignName), optString(p.Source),
			optString(p.Medium), optString(p.Term), optString(p.Context),
			optString(p.GCLID), optString(p.DCLID), optString(p.SRSLTID),
			optString(p.IsActiveUser), p.MarketingID,
		})
	}
	if err := s.ReplaceTable(DailyTableName("user_params", date), pt); err != nil {
		return err
	}

	et := Table{Columns: eventColumns(), Rows: make([][]any, 0, len(events))}
	for _, e := range events {
		var ref any
		if e.UserParamsRef != nil {
			ref = *e.UserParamsRef
		}
		et.Rows = append(et.Rows, []any{
			e.UserID, e.Alpha2, e.Alpha3, e.Flag, e.CountryName, e.CountryNumeric,
			optString(e.OfficialName), e.OS, e.Brand, e.Model, e.ModelNumber,
			e.Specification, e.EventTime, e.EventType, optString(e.Location),
			e.UserActionDetail, optString(e.SessionNumber), e.LocalizationID,
			e.GASessionID, e.Value, e.State, e.EngagementTimeMsec,
			optString(e.CurrentProgress), e.EventOrigin, e.Place,
			optString(e.Selection), e.AnalyticsStorage, optString(e.Browser),
			optString(e.InstallStore), ref,
		})
	}
	return s.ReplaceTable(DailyTableName("events", date), et)
}

// EventUserIDs returns the user_id column of the daily events table.
func (s *Store) EventUserIDs(date time.Time) ([]string, error) {
	t, err := s.ReadTable(DailyTableName("events", date))
	if err != nil {
		return nil, err
	}
	idx := t.ColumnIndex("user_id")
	if idx < 0 {
		return nil, fmt.Errorf("events table for %s has no user_id column", date.Format(DateKey))
	}
	ids := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		ids = append(ids, asString(row[idx]))
	}
	return ids, nil
}

func orderColumns() []Column {
	return []Column{
		{Name: "item_price", Type: TypeReal},
		{Name: "discount_amount", Type: TypeReal},
		{Name: "tax", Type: TypeReal},
		{Name: "fee", Type: TypeReal},
	}
}

// SaveOrders writes the daily orders table.
func (s *Store) SaveOrders(date time.Time, orders []model.OrderRecord) error {
	t := Table{Columns: orderColumns(), Rows: make([][]any, 0, len(orders))}
	for _, o := range orders {
		t.Rows = append(t.Rows, []any{o.ItemPrice, o.DiscountAmount, o.Tax, o.Fee})
	}
	return s.ReplaceTable(DailyTableName("orders", date), t)
}

// LoadOrders reads the daily orders table back as typed records.
func (s *Store) LoadOrders(date time.Time) ([]model.OrderRecord, error) {
	t, err := s.ReadTable(DailyTableName("orders", date))
	if err != nil {
		return nil, err
	}

	orders := make([]model.OrderRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		orders = append(orders, model.OrderRecord{
			ItemPrice:      asFloat(row[0]),
			DiscountAmount: asFloat(row[1]),
			Tax:            asFloat(row[2]),
			Fee:            asFloat(row[3]),
		})
	}
	return orders, nil
}

// SaveCPI writes one per-dimension daily CPI table. The value column is
// named after the dimension so per-dimension tables stay self-describing.
func (s *Store) SaveCPI(date time.Time, dimension string, rows []model.CPIRow) error {
	t := Table{
		Columns: []Column{
			{Name: dimension, Type: TypeText},
			{Name: "installs_count", Type: TypeInteger},
			{Name: "total_amount_spent", Type: TypeReal},
			{Name: "cpi", Type: TypeReal},
		},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Value, r.InstallsCount, r.TotalAmountSpent, r.CPI})
	}
	return s.ReplaceTable(CPITableName(dimension, date), t)
}

// SaveARPU writes the daily ARPU table (a single row).
func (s *Store) SaveARPU(date time.Time, row model.ARPURow) error {
	t := Table{
		Columns: []Column{
			{Name: "unique_users_count", Type: TypeInteger},
			{Name: "total_revenue", Type: TypeReal},
			{Name: "arpu", Type: TypeReal},
		},
		Rows: [][]any{{row.UniqueUsersCount, row.TotalRevenue, optFloat(row.ARPU)}},
	}
	return s.ReplaceTable(DailyTableName("arpu", date), t)
}

// SaveROAS writes the daily ROAS table (a single row).
func (s *Store) SaveROAS(date time.Time, row model.ROASRow) error {
	t := Table{
		Columns: []Column{
			{Name: "total_revenue", Type: TypeReal},
			{Name: "amount_spent", Type: TypeReal},
			{Name: "roas", Type: TypeReal},
		},
		Rows: [][]any{{row.TotalRevenue, row.AmountSpent, optFloat(row.ROAS)}},
	}
	return s.ReplaceTable(DailyTableName("roas", date), t)
}

func optString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func optFloat(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	}
	return 0
}
