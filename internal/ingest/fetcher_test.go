package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"admetrics/internal/attribapi"
	"admetrics/internal/config"
	"admetrics/internal/model"
)

// fastRetry keeps test backoffs in the microsecond range.
var fastRetry = config.RetryConfig{MaxAttempts: 3, BaseBackoffMS: 1, MaxBackoffSecs: 1}

// stubPager serves scripted responses per cursor. A response with fail > 0
// answers the transient sentinel that many times before succeeding.
type stubPager struct {
	pages map[string]*stubPage
	calls []string
}

type stubPage struct {
	fail int
	page attribapi.EventsPage
}

func (s *stubPager) FetchEventsPage(_ context.Context, _ time.Time, cursor string) (attribapi.EventsPage, error) {
	s.calls = append(s.calls, cursor)
	p, ok := s.pages[cursor]
	if !ok {
		return attribapi.EventsPage{}, errors.New("unknown cursor " + cursor)
	}
	if p.fail > 0 {
		p.fail--
		return attribapi.EventsPage{}, attribapi.ErrTransient
	}
	return p.page, nil
}

func event(userID string) model.EventRecord {
	return model.EventRecord{UserID: userID, EventType: "session_start"}
}

func TestFetchAll_FollowsCursorChain(t *testing.T) {
	pager := &stubPager{pages: map[string]*stubPage{
		"":   {page: attribapi.EventsPage{Records: []model.EventRecord{event("u1"), event("u2")}, NextPage: "p2"}},
		"p2": {page: attribapi.EventsPage{Records: []model.EventRecord{event("u3")}, NextPage: "p3"}},
		"p3": {page: attribapi.EventsPage{Records: []model.EventRecord{event("u4")}}},
	}}

	f := NewFetcher(pager, fastRetry)
	got, err := f.FetchAll(context.Background(), time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"u1", "u2", "u3", "u4"}
	if len(got) != len(want) {
		t.Fatalf("records = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].UserID != id {
			t.Errorf("record[%d].UserID = %q, want %q", i, got[i].UserID, id)
		}
	}
	if len(pager.calls) != 3 {
		t.Errorf("page requests = %d, want 3", len(pager.calls))
	}
}

func TestFetchAll_EmptyFirstPage(t *testing.T) {
	pager := &stubPager{pages: map[string]*stubPage{
		"": {page: attribapi.EventsPage{}},
	}}

	f := NewFetcher(pager, fastRetry)
	got, err := f.FetchAll(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("records = %d, want 0", len(got))
	}
}

func TestFetchAll_RetriesTransientOnSameCursor(t *testing.T) {
	pager := &stubPager{pages: map[string]*stubPage{
		"":   {page: attribapi.EventsPage{Records: []model.EventRecord{event("u1")}, NextPage: "p2"}},
		"p2": {fail: 2, page: attribapi.EventsPage{Records: []model.EventRecord{event("u2")}}},
	}}

	f := NewFetcher(pager, fastRetry)
	got, err := f.FetchAll(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("records = %d, want 2", len(got))
	}

	// 1 for the first page, then 2 transient failures + 1 success on p2.
	if f.Attempts != 4 {
		t.Errorf("Attempts = %d, want 4", f.Attempts)
	}
	for _, c := range pager.calls[1:] {
		if c != "p2" {
			t.Errorf("retried against cursor %q, want p2", c)
		}
	}
}

func TestFetchAll_SentinelTwiceThenSucceeds(t *testing.T) {
	pager := &stubPager{pages: map[string]*stubPage{
		"": {fail: 2, page: attribapi.EventsPage{Records: []model.EventRecord{event("u1")}}},
	}}

	f := NewFetcher(pager, fastRetry)
	got, err := f.FetchAll(context.Background(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "u1" {
		t.Fatalf("records = %v, want [u1]", got)
	}
	if f.Attempts != 3 {
		t.Errorf("Attempts = %d, want exactly 3", f.Attempts)
	}
}

func TestFetchAll_TransientExhaustsBudget(t *testing.T) {
	pager := &stubPager{pages: map[string]*stubPage{
		"": {fail: 10, page: attribapi.EventsPage{}},
	}}

	f := NewFetcher(pager, fastRetry)
	_, err := f.FetchAll(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error after retry budget exhausted")
	}
	if !errors.Is(err, attribapi.ErrTransient) {
		t.Fatalf("error = %v, want wrapped ErrTransient", err)
	}
	if f.Attempts != fastRetry.MaxAttempts {
		t.Errorf("Attempts = %d, want %d", f.Attempts, fastRetry.MaxAttempts)
	}
}

func TestFetchAll_FatalErrorNotRetried(t *testing.T) {
	pager := &stubPager{pages: map[string]*stubPage{
		"": {page: attribapi.EventsPage{NextPage: "missing"}},
	}}

	f := NewFetcher(pager, fastRetry)
	_, err := f.FetchAll(context.Background(), time.Now())
	if err == nil {
		t.Fatal("expected error for unknown cursor")
	}
	// One request for the first page, one for the failing cursor.
	if f.Attempts != 2 {
		t.Errorf("Attempts = %d, want 2 (no retry on fatal errors)", f.Attempts)
	}
}
