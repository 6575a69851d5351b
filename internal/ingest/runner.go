package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"admetrics/internal/config"
	"admetrics/internal/model"
	"admetrics/internal/store"
)

// Source is the slice of the attribution API the daily run needs.
type Source interface {
	EventsPager
	FetchInstalls(ctx context.Context, date time.Time) ([]model.InstallRecord, error)
	FetchCosts(ctx context.Context, date time.Time) ([]model.CostRow, error)
	FetchOrders(ctx context.Context, date time.Time) ([]model.OrderRecord, error)
}

// Datasets, in the order the daily run processes them.
var Datasets = []string{"costs", "installs", "events", "orders"}

// Result summarizes a completed (or failed) daily run.
type Result struct {
	RunID    string
	Date     time.Time
	RowCount map[string]int
	Done     []string
}

// Runner executes the daily ingest: fetch each dataset and replace its
// daily table. Writes are per-table transactions; there is no cross-table
// rollback, so the audit row records how far a failed run got.
type Runner struct {
	source Source
	store  *store.Store
	retry  config.RetryConfig
	log    zerolog.Logger
}

// NewRunner returns a daily-run pipeline over the given source and store.
func NewRunner(source Source, st *store.Store, rc config.RetryConfig, log zerolog.Logger) *Runner {
	return &Runner{source: source, store: st, retry: rc, log: log}
}

// RunDaily ingests the named datasets (all four when only is empty) for one
// date. The first failure aborts the run; completed datasets stay written.
func (r *Runner) RunDaily(ctx context.Context, date time.Time, only []string) (*Result, error) {
	result := &Result{
		RunID:    store.NewRunID(),
		Date:     date,
		RowCount: make(map[string]int),
	}
	started := time.Now()

	selected := make(map[string]bool, len(only))
	for _, name := range only {
		selected[name] = true
	}

	var runErr error
	for _, dataset := range Datasets {
		if len(only) > 0 && !selected[dataset] {
			continue
		}

		r.log.Info().Str("dataset", dataset).Str("date", date.Format(store.DateKey)).Msg("ingesting dataset")

		rows, err := r.ingestDataset(ctx, dataset, date)
		if err != nil {
			runErr = fmt.Errorf("ingesting %s: %w", dataset, err)
			break
		}

		result.RowCount[dataset] = rows
		result.Done = append(result.Done, dataset)
		r.log.Info().Str("dataset", dataset).Int("rows", rows).Msg("dataset saved")
	}

	audit := store.RunRecord{
		RunID:      result.RunID,
		Date:       date.Format(store.DateKey),
		Kind:       "daily",
		StartedAt:  started,
		FinishedAt: time.Now(),
		Datasets:   strings.Join(result.Done, ","),
	}
	for _, n := range result.Done {
		audit.Rows += int64(result.RowCount[n])
	}
	if runErr != nil {
		audit.Err = runErr.Error()
	}
	if err := r.store.RecordRun(audit); err != nil {
		r.log.Warn().Err(err).Msg("recording audit row failed")
	}

	if runErr != nil {
		return result, runErr
	}
	return result, nil
}

func (r *Runner) ingestDataset(ctx context.Context, dataset string, date time.Time) (int, error) {
	switch dataset {
	case "costs":
		rows, err := r.source.FetchCosts(ctx, date)
		if err != nil {
			return 0, err
		}
		return len(rows), r.store.SaveCosts(date, rows)

	case "installs":
		records, err := r.source.FetchInstalls(ctx, date)
		if err != nil {
			return 0, err
		}
		return len(records), r.store.SaveInstalls(date, records)

	case "events":
		fetcher := NewFetcher(r.source, r.retry)
		events, err := fetcher.FetchAll(ctx, date)
		if err != nil {
			return 0, err
		}
		flattened, params := Flatten(events)
		return len(flattened), r.store.SaveEvents(date, flattened, params)

	case "orders":
		orders, err := r.source.FetchOrders(ctx, date)
		if err != nil {
			return 0, err
		}
		return len(orders), r.store.SaveOrders(date, orders)

	default:
		return 0, fmt.Errorf("unknown dataset %q", dataset)
	}
}
