// Package store persists pipeline tables in a relational database.
//
// The pipeline needs three operations from its store: write a named table
// wholesale (replacing any previous version), read a named table back, and
// list the names the catalog currently knows. Everything else in this
// package is typed convenience on top of those three.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx driver
	_ "modernc.org/sqlite"             // register sqlite driver
)

// Store wraps a single database connection held for the run's duration.
// The pipeline is the only writer; there is no cross-process locking.
type Store struct {
	db     *sql.DB
	driver string
}

var validTableName = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Open opens a store for the given driver ("sqlite" or "postgres") and DSN.
// For sqlite the DSN is a file path and parent directories are created.
func Open(driver, dsn string) (*Store, error) {
	switch driver {
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
		db, err := sql.Open("sqlite", dsn+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)")
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return &Store{db: db, driver: driver}, nil
	case "postgres":
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		return &Store{db: db, driver: driver}, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListTables returns all table names known to the catalog.
func (s *Store) ListTables() ([]string, error) {
	var query string
	switch s.driver {
	case "sqlite":
		query = `SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	case "postgres":
		query = `SELECT tablename FROM pg_tables WHERE schemaname='public' ORDER BY tablename`
	}

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DropIfExists removes a table if present.
func (s *Store) DropIfExists(name string) error {
	if !validTableName.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	_, err := s.db.Exec("DROP TABLE IF EXISTS " + name)
	return err
}

// placeholder returns the driver's placeholder for the i-th (1-based)
// bind parameter.
func (s *Store) placeholder(i int) string {
	if s.driver == "postgres" {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

func (s *Store) placeholders(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = s.placeholder(i + 1)
	}
	return strings.Join(parts, ", ")
}
