package store

import (
	"testing"
	"time"

	"admetrics/internal/model"
)

var testDate = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func strptr(s string) *string { return &s }

func TestSaveLoadInstalls(t *testing.T) {
	s := openTestStore(t)

	in := []model.InstallRecord{
		{
			InstallTime: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC),
			MarketingID: "m1",
			Channel:     "google",
			Medium:      "cpc",
			Campaign:    "spring",
			Alpha2:      "US",
		},
		{MarketingID: "m2", Channel: "organic"},
	}
	if err := s.SaveInstalls(testDate, in); err != nil {
		t.Fatal(err)
	}

	out, err := s.LoadInstalls(testDate)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("records = %d, want 2", len(out))
	}
	if out[0].MarketingID != "m1" || out[0].Channel != "google" || out[0].Alpha2 != "US" {
		t.Errorf("record[0] = %+v, want m1/google/US", out[0])
	}
	want := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	if !out[0].InstallTime.Equal(want) {
		t.Errorf("InstallTime = %v, want %v", out[0].InstallTime, want)
	}
}

func TestSaveLoadCosts(t *testing.T) {
	s := openTestStore(t)

	in := []model.CostRow{
		{Campaign: "spring", Location: "UK", Channel: "google", Cost: 12.5},
		{Campaign: "summer", Location: "US", Channel: "facebook", Cost: 3},
	}
	if err := s.SaveCosts(testDate, in); err != nil {
		t.Fatal(err)
	}

	out, err := s.LoadCosts(testDate)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 2 {
		t.Fatalf("rows = %d, want 2", len(out))
	}
	// The store keeps the feed's raw location; recoding happens in metrics.
	if out[0].Location != "UK" {
		t.Errorf("Location = %q, want UK", out[0].Location)
	}
	if out[0].Cost != 12.5 {
		t.Errorf("Cost = %v, want 12.5", out[0].Cost)
	}
}

func TestSaveEventsAndUserIDs(t *testing.T) {
	s := openTestStore(t)

	ref1, ref2 := int64(1), int64(2)
	events := []model.EventRecord{
		{UserID: "u1", EventType: "purchase", EventTime: "09:30:00", UserParamsRef: &ref1},
		{UserID: "u2", EventType: "session_start", Browser: strptr("chrome"), UserParamsRef: &ref2},
	}
	params := []model.UserParams{
		{ID: 1, MarketingID: "m1", Source: strptr("google")},
	}

	if err := s.SaveEvents(testDate, events, params); err != nil {
		t.Fatal(err)
	}

	ids, err := s.EventUserIDs(testDate)
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 2 || ids[0] != "u1" || ids[1] != "u2" {
		t.Fatalf("user ids = %v, want [u1 u2]", ids)
	}

	et, err := s.ReadTable("events_2026_03_01")
	if err != nil {
		t.Fatal(err)
	}
	refIdx := et.ColumnIndex("user_params")
	if refIdx < 0 {
		t.Fatal("events table missing user_params column")
	}
	if et.Rows[0][refIdx] != int64(1) || et.Rows[1][refIdx] != int64(2) {
		t.Errorf("refs = %v, %v, want 1, 2", et.Rows[0][refIdx], et.Rows[1][refIdx])
	}

	pt, err := s.ReadTable("user_params_2026_03_01")
	if err != nil {
		t.Fatal(err)
	}
	if len(pt.Rows) != 1 {
		t.Fatalf("user_params rows = %d, want 1", len(pt.Rows))
	}
}

func TestSaveLoadOrders(t *testing.T) {
	s := openTestStore(t)

	in := []model.OrderRecord{
		{ItemPrice: 100, DiscountAmount: 10, Tax: 5, Fee: 5},
	}
	if err := s.SaveOrders(testDate, in); err != nil {
		t.Fatal(err)
	}

	out, err := s.LoadOrders(testDate)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Fatalf("orders = %d, want 1", len(out))
	}
	if out[0].NetRevenue() != 80 {
		t.Errorf("NetRevenue = %v, want 80", out[0].NetRevenue())
	}
}

func TestSaveCPI_ValueColumnNamedAfterDimension(t *testing.T) {
	s := openTestStore(t)

	rows := []model.CPIRow{
		{Dimension: "channel", Value: "google", InstallsCount: 10, TotalAmountSpent: 100, CPI: 10},
	}
	if err := s.SaveCPI(testDate, "channel", rows); err != nil {
		t.Fatal(err)
	}

	out, err := s.ReadTable("cpi_channel_2026_03_01")
	if err != nil {
		t.Fatal(err)
	}
	if out.Columns[0].Name != "channel" {
		t.Errorf("first column = %q, want channel", out.Columns[0].Name)
	}
	if out.ColumnIndex("installs_count") < 0 || out.ColumnIndex("cpi") < 0 {
		t.Error("missing installs_count or cpi column")
	}
}

func TestSaveARPU_NullRatio(t *testing.T) {
	s := openTestStore(t)

	if err := s.SaveARPU(testDate, model.ARPURow{UniqueUsersCount: 3}); err != nil {
		t.Fatal(err)
	}

	out, err := s.ReadTable("arpu_2026_03_01")
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(out.Rows))
	}
	idx := out.ColumnIndex("arpu")
	if out.Rows[0][idx] != nil {
		t.Errorf("arpu = %v, want NULL", out.Rows[0][idx])
	}
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 3, 1, 6, 0, 0, 0, time.UTC)
	for i, kind := range []string{"daily", "metrics"} {
		err := s.RecordRun(RunRecord{
			RunID:      NewRunID(),
			Date:       "2026-03-01",
			Kind:       kind,
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + 30*time.Second),
			Datasets:   "costs,installs",
			Rows:       42,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.RecentRuns(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("runs = %d, want 2", len(runs))
	}
	// Newest first.
	if runs[0].Kind != "metrics" || runs[1].Kind != "daily" {
		t.Errorf("run order = [%s, %s], want [metrics, daily]", runs[0].Kind, runs[1].Kind)
	}
	if runs[0].Rows != 42 {
		t.Errorf("Rows = %d, want 42", runs[0].Rows)
	}
}
