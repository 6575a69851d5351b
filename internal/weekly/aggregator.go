// Package weekly builds trailing-seven-day rollup tables by discovering
// daily tables in the store catalog and concatenating them.
package weekly

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"admetrics/internal/model"
	"admetrics/internal/store"
)

// DefaultPrefixes are the entity prefixes the scheduled weekly run rolls up.
var DefaultPrefixes = []string{"roas", "arpu", "cpi"}

// Aggregator discovers daily tables by name and produces tagged rollups.
type Aggregator struct {
	store *store.Store
	log   zerolog.Logger
}

// NewAggregator returns a weekly aggregator over the given store.
func NewAggregator(st *store.Store, log zerolog.Logger) *Aggregator {
	return &Aggregator{store: st, log: log}
}

// Run builds rollups for each prefix from the 7 days strictly preceding
// runDate. A prefix (or CPI dimension) with no matching daily tables is
// skipped with a warning rather than producing an empty table.
func (a *Aggregator) Run(runDate time.Time, prefixes []string) error {
	if len(prefixes) == 0 {
		prefixes = DefaultPrefixes
	}

	runID := store.NewRunID()
	started := time.Now()
	var built []string

	err := func() error {
		catalog, err := a.store.ListTables()
		if err != nil {
			return err
		}
		window := windowDates(runDate)

		for _, prefix := range prefixes {
			matched := matchTables(catalog, prefix, window)

			if prefix == "cpi" {
				for _, dimension := range model.Dimensions {
					var group []string
					for _, name := range matched {
						if strings.Contains(name, dimension) {
							group = append(group, name)
						}
					}
					name, err := a.combine(prefix, dimension, group)
					if err != nil {
						return err
					}
					if name != "" {
						built = append(built, name)
					}
				}
				continue
			}

			name, err := a.combine(prefix, "", matched)
			if err != nil {
				return err
			}
			if name != "" {
				built = append(built, name)
			}
		}
		return nil
	}()

	audit := store.RunRecord{
		RunID:      runID,
		Date:       runDate.Format(store.DateKey),
		Kind:       "weekly",
		StartedAt:  started,
		FinishedAt: time.Now(),
		Datasets:   strings.Join(built, ","),
	}
	if err != nil {
		audit.Err = err.Error()
	}
	if recErr := a.store.RecordRun(audit); recErr != nil {
		a.log.Warn().Err(recErr).Msg("recording audit row failed")
	}

	return err
}

// windowDates returns the 7 date keys strictly preceding runDate, most
// recent first.
func windowDates(runDate time.Time) []string {
	dates := make([]string, 0, 7)
	for i := 1; i <= 7; i++ {
		dates = append(dates, runDate.AddDate(0, 0, -i).Format(store.DateKey))
	}
	return dates
}

// matchTables selects catalog names containing the prefix and a window
// date, excluding tables that are already rollups.
func matchTables(catalog []string, prefix string, window []string) []string {
	var matched []string
	for _, name := range catalog {
		if !strings.Contains(name, prefix) {
			continue
		}
		if strings.Contains(name, store.RollupMarker) {
			continue
		}
		for _, date := range window {
			if strings.Contains(name, date) {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched
}

// combine reads the group's tables in lexicographic (hence chronological)
// order, tags each row with its table's embedded date, concatenates, and
// saves the rollup. Returns the rollup name, or "" for an empty group.
func (a *Aggregator) combine(prefix, dimension string, group []string) (string, error) {
	if len(group) == 0 {
		a.log.Warn().Str("prefix", prefix).Str("dimension", dimension).Msg("no daily tables in window, skipping rollup")
		return "", nil
	}
	sort.Strings(group)

	var combined store.Table
	for i, name := range group {
		date, ok := store.EmbeddedDate(name)
		if !ok {
			return "", fmt.Errorf("table %s has no embedded date", name)
		}

		t, err := a.store.ReadTable(name)
		if err != nil {
			return "", err
		}
		tagged := t.WithDateColumn(date)

		if i == 0 {
			combined = tagged
			continue
		}
		if !columnsMatch(combined.Columns, tagged.Columns) {
			return "", fmt.Errorf("table %s columns do not match %s", name, group[0])
		}
		combined.Rows = append(combined.Rows, tagged.Rows...)
	}

	firstDate, _ := store.EmbeddedDate(group[0])
	lastDate, _ := store.EmbeddedDate(group[len(group)-1])
	name := store.WeeklyTableName(prefix, firstDate, lastDate, dimension)

	if err := a.store.ReplaceTable(name, combined); err != nil {
		return "", fmt.Errorf("saving rollup %s: %w", name, err)
	}
	a.log.Info().Str("table", name).Int("rows", len(combined.Rows)).Int("days", len(group)).Msg("rollup saved")
	return name, nil
}

func columnsMatch(a, b []store.Column) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}
