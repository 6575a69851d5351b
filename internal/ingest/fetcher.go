// Package ingest runs the daily fetch-and-store pipeline: paginated event
// retrieval, nested-field flattening, and per-dataset persistence.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"admetrics/internal/attribapi"
	"admetrics/internal/config"
	"admetrics/internal/model"
)

// EventsPager fetches one page of the events dataset.
type EventsPager interface {
	FetchEventsPage(ctx context.Context, date time.Time, cursor string) (attribapi.EventsPage, error)
}

// Fetcher walks the events cursor chain for a date and returns all records
// in page-arrival order. Pages that answer with the transient sentinel are
// retried against the same cursor with capped exponential backoff; after
// the attempt budget is spent the error is fatal.
type Fetcher struct {
	pager       EventsPager
	maxAttempts int
	baseBackoff time.Duration
	maxBackoff  time.Duration

	// Attempts counts page requests made, including retries.
	Attempts int
}

// NewFetcher returns a fetcher with the given retry policy.
func NewFetcher(pager EventsPager, rc config.RetryConfig) *Fetcher {
	attempts := rc.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &Fetcher{
		pager:       pager,
		maxAttempts: attempts,
		baseBackoff: rc.BaseBackoff(),
		maxBackoff:  rc.MaxBackoff(),
	}
}

// FetchAll follows the cursor chain to completion. The traversal is a
// plain loop, so arbitrarily long chains cost no stack.
func (f *Fetcher) FetchAll(ctx context.Context, date time.Time) ([]model.EventRecord, error) {
	var all []model.EventRecord
	cursor := ""
	for {
		page, err := f.fetchPage(ctx, date, cursor)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Records...)
		if page.NextPage == "" {
			return all, nil
		}
		cursor = page.NextPage
	}
}

func (f *Fetcher) fetchPage(ctx context.Context, date time.Time, cursor string) (attribapi.EventsPage, error) {
	backoff := retry.NewExponential(f.baseBackoff)
	backoff = retry.WithCappedDuration(f.maxBackoff, backoff)
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithMaxRetries(uint64(f.maxAttempts-1), backoff)

	var page attribapi.EventsPage
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		f.Attempts++
		p, err := f.pager.FetchEventsPage(ctx, date, cursor)
		if err != nil {
			if errors.Is(err, attribapi.ErrTransient) {
				return retry.RetryableError(err)
			}
			return err
		}
		page = p
		return nil
	})
	if err != nil {
		return attribapi.EventsPage{}, fmt.Errorf("fetching events page (cursor %q): %w", cursor, err)
	}
	return page, nil
}
