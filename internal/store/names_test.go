package store

import (
	"testing"
	"time"
)

func TestDailyTableName(t *testing.T) {
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := DailyTableName("events", date); got != "events_2024_01_05" {
		t.Errorf("DailyTableName = %q, want events_2024_01_05", got)
	}
	if got := CPITableName("channel", date); got != "cpi_channel_2024_01_05" {
		t.Errorf("CPITableName = %q, want cpi_channel_2024_01_05", got)
	}
}

func TestWeeklyTableName(t *testing.T) {
	got := WeeklyTableName("roas", "2024_01_01", "2024_01_07", "")
	if got != "roas_2024_01_01_to_2024_01_07" {
		t.Errorf("WeeklyTableName = %q, want roas_2024_01_01_to_2024_01_07", got)
	}

	got = WeeklyTableName("cpi", "2024_01_01", "2024_01_07", "channel")
	if got != "cpi_2024_01_01_to_2024_01_07_channel" {
		t.Errorf("WeeklyTableName = %q, want cpi_2024_01_01_to_2024_01_07_channel", got)
	}
}

func TestEmbeddedDate(t *testing.T) {
	cases := []struct {
		name string
		want string
		ok   bool
	}{
		{"events_2024_01_05", "2024_01_05", true},
		{"cpi_landing_page_2024_12_31", "2024_12_31", true},
		{"roas_2024_01_01_to_2024_01_07", "2024_01_01", true},
		{"ingest_runs", "", false},
		{"events", "", false},
	}

	for _, c := range cases {
		got, ok := EmbeddedDate(c.name)
		if got != c.want || ok != c.ok {
			t.Errorf("EmbeddedDate(%q) = %q, %v; want %q, %v", c.name, got, ok, c.want, c.ok)
		}
	}
}
