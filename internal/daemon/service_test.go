package daemon

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testService(t *testing.T, cfg Config, daily, weekly RunFunc) *Service {
	t.Helper()
	if daily == nil {
		daily = func(context.Context, time.Time) error { return nil }
	}
	if weekly == nil {
		weekly = func(context.Context, time.Time) error { return nil }
	}
	return New(cfg, daily, weekly, zerolog.Nop())
}

func at(hour, min int) time.Time {
	// 2024-01-08 is a Monday.
	return time.Date(2024, 1, 8, hour, min, 0, 0, time.UTC)
}

func TestDueDaily(t *testing.T) {
	s := testService(t, Config{DailyAt: "06:00"}, nil, nil)

	if _, ok := s.dueDaily(at(5, 59)); ok {
		t.Error("due before the configured time")
	}

	day, ok := s.dueDaily(at(6, 0))
	if !ok {
		t.Fatal("not due at the configured time")
	}
	if day != "2024-01-08" {
		t.Errorf("day = %q, want 2024-01-08", day)
	}

	// Once a run has covered the day, later ticks are not due.
	s.lastDailyDay = day
	if _, ok := s.dueDaily(at(12, 0)); ok {
		t.Error("due again on the same day")
	}

	// Next day fires again.
	next := at(6, 0).AddDate(0, 0, 1)
	if _, ok := s.dueDaily(next); !ok {
		t.Error("not due on the next day")
	}
}

func TestDueWeekly(t *testing.T) {
	s := testService(t, Config{WeeklyAt: "10:00", WeeklyWeekday: time.Monday}, nil, nil)

	if _, ok := s.dueWeekly(at(10, 0).AddDate(0, 0, 1)); ok {
		t.Error("due on a Tuesday with Monday configured")
	}
	if _, ok := s.dueWeekly(at(9, 59)); ok {
		t.Error("due before the configured time")
	}

	day, ok := s.dueWeekly(at(10, 0))
	if !ok {
		t.Fatal("not due on Monday at the configured time")
	}
	s.lastWeeklyDay = day
	if _, ok := s.dueWeekly(at(11, 0)); ok {
		t.Error("due again on the same Monday")
	}
}

func TestTick_DailyCoversPreviousDay(t *testing.T) {
	var gotDate time.Time
	daily := func(_ context.Context, date time.Time) error {
		gotDate = date
		return nil
	}

	s := testService(t, Config{DailyAt: "06:00", WeeklyWeekday: time.Sunday}, daily, nil)
	now := at(6, 30)
	s.now = func() time.Time { return now }

	s.tick(context.Background())

	want := now.AddDate(0, 0, -1)
	if gotDate.Format("2006-01-02") != want.Format("2006-01-02") {
		t.Errorf("daily run date = %s, want %s (previous day)",
			gotDate.Format("2006-01-02"), want.Format("2006-01-02"))
	}

	st := s.snapshotStatus()
	if st.DailyRuns != 1 {
		t.Errorf("DailyRuns = %d, want 1", st.DailyRuns)
	}
	if st.LastDailyDay != "2024-01-08" {
		t.Errorf("LastDailyDay = %q, want 2024-01-08", st.LastDailyDay)
	}
	if st.WeeklyRuns != 0 {
		t.Errorf("WeeklyRuns = %d, want 0 (wrong weekday)", st.WeeklyRuns)
	}
}

func TestTick_RecordsRunError(t *testing.T) {
	daily := func(context.Context, time.Time) error {
		return context.DeadlineExceeded
	}

	s := testService(t, Config{DailyAt: "06:00", WeeklyWeekday: time.Sunday}, daily, nil)
	s.now = func() time.Time { return at(7, 0) }

	s.tick(context.Background())

	st := s.snapshotStatus()
	if st.LastDailyErr == "" {
		t.Error("LastDailyErr empty after failing run")
	}
	// The day still counts as covered; failures wait for the next day.
	if _, ok := s.dueDaily(at(8, 0)); ok {
		t.Error("failed run re-fires on the same day")
	}
}

func TestTimeOfDayReached(t *testing.T) {
	cases := []struct {
		now  time.Time
		mark string
		want bool
	}{
		{at(5, 59), "06:00", false},
		{at(6, 0), "06:00", true},
		{at(23, 30), "06:00", true},
		{at(6, 0), "bogus", true}, // unparseable mark never blocks
	}
	for _, c := range cases {
		if got := timeOfDayReached(c.now, c.mark); got != c.want {
			t.Errorf("timeOfDayReached(%v, %q) = %v, want %v", c.now, c.mark, got, c.want)
		}
	}
}
