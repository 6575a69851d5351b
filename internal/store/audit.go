package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RunRecord is one row of the ingest_runs audit table. It records which
// datasets a run got through before finishing or failing, since a failed
// run leaves the store partially updated.
type RunRecord struct {
	RunID      string
	Date       string
	Kind       string // "daily", "metrics", or "weekly"
	StartedAt  time.Time
	FinishedAt time.Time
	Datasets   string // comma-separated datasets completed, in order
	Rows       int64
	Err        string
}

const auditSchema = `CREATE TABLE IF NOT EXISTS ingest_runs (
	run_id      TEXT PRIMARY KEY,
	date        TEXT NOT NULL,
	kind        TEXT NOT NULL,
	started_at  TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	datasets    TEXT,
	row_count   INTEGER,
	error       TEXT
)`

// NewRunID returns a fresh audit run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// RecordRun appends a run record to the audit table.
func (s *Store) RecordRun(r RunRecord) error {
	if _, err := s.db.Exec(auditSchema); err != nil {
		return fmt.Errorf("creating ingest_runs: %w", err)
	}

	insert := "INSERT INTO ingest_runs VALUES (" + s.placeholders(8) + ")"
	_, err := s.db.Exec(insert,
		r.RunID, r.Date, r.Kind,
		r.StartedAt.UTC().Format(time.RFC3339),
		r.FinishedAt.UTC().Format(time.RFC3339),
		r.Datasets, r.Rows, r.Err,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent audit rows, newest first.
func (s *Store) RecentRuns(limit int) ([]RunRecord, error) {
	if _, err := s.db.Exec(auditSchema); err != nil {
		return nil, fmt.Errorf("creating ingest_runs: %w", err)
	}

	query := fmt.Sprintf(
		"SELECT run_id, date, kind, started_at, finished_at, datasets, row_count, error FROM ingest_runs ORDER BY started_at DESC LIMIT %d",
		limit)
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var out []RunRecord
	for rows.Next() {
		var r RunRecord
		var started, finished string
		if err := rows.Scan(&r.RunID, &r.Date, &r.Kind, &started, &finished, &r.Datasets, &r.Rows, &r.Err); err != nil {
			return nil, err
		}
		r.StartedAt, _ = time.Parse(time.RFC3339, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339, finished)
		out = append(out, r)
	}
	return out, rows.Err()
}
