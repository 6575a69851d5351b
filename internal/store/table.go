package store

import (
	"database/sql"
	"fmt"
	"strings"
)

// Column types understood by the store.
const (
	TypeText    = "TEXT"
	TypeInteger = "INTEGER"
	TypeReal    = "REAL"
)

// Column is a named, typed table column.
type Column struct {
	Name string
	Type string
}

// Table is an in-memory tabular snapshot. Row values are nil, string,
// int64, or float64, positionally aligned with Columns.
type Table struct {
	Columns []Column
	Rows    [][]any
}

// ColumnIndex returns the position of the named column, or -1.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// WithDateColumn returns a copy of the table with a trailing `date` text
// column set to the given value on every row.
func (t Table) WithDateColumn(date string) Table {
	out := Table{
		Columns: append(append([]Column{}, t.Columns...), Column{Name: "date", Type: TypeText}),
		Rows:    make([][]any, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		out.Rows = append(out.Rows, append(append([]any{}, row...), date))
	}
	return out
}

func (s *Store) columnDDL(c Column) string {
	typ := c.Type
	if s.driver == "postgres" {
		switch c.Type {
		case TypeInteger:
			typ = "BIGINT"
		case TypeReal:
			typ = "DOUBLE PRECISION"
		}
	}
	return c.Name + " " + typ
}

// ReplaceTable writes a table under the given name, dropping any previous
// version. The drop, create, and inserts run in one transaction, so a
// half-written table is never visible.
func (s *Store) ReplaceTable(name string, t Table) error {
	if !validTableName.MatchString(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", name)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + name); err != nil {
		return fmt.Errorf("dropping %s: %w", name, err)
	}

	ddl := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		ddl[i] = s.columnDDL(c)
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", name, strings.Join(ddl, ", "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}

	if len(t.Rows) > 0 {
		insert := fmt.Sprintf("INSERT INTO %s VALUES (%s)", name, s.placeholders(len(t.Columns)))
		stmt, err := tx.Prepare(insert)
		if err != nil {
			return fmt.Errorf("preparing insert for %s: %w", name, err)
		}
		defer func() { _ = stmt.Close() }()

		for _, row := range t.Rows {
			if len(row) != len(t.Columns) {
				return fmt.Errorf("table %s: row has %d values, want %d", name, len(row), len(t.Columns))
			}
			if _, err := stmt.Exec(row...); err != nil {
				return fmt.Errorf("inserting into %s: %w", name, err)
			}
		}
	}

	return tx.Commit()
}

// ReadTable reads a named table back, inferring column types from the
// database schema.
func (s *Store) ReadTable(name string) (Table, error) {
	if !validTableName.MatchString(name) {
		return Table{}, fmt.Errorf("invalid table name %q", name)
	}

	rows, err := s.db.Query("SELECT * FROM " + name)
	if err != nil {
		return Table{}, fmt.Errorf("reading %s: %w", name, err)
	}
	defer func() { _ = rows.Close() }()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return Table{}, err
	}

	t := Table{Columns: make([]Column, len(colTypes))}
	for i, ct := range colTypes {
		t.Columns[i] = Column{Name: ct.Name(), Type: storeType(ct.DatabaseTypeName())}
	}

	for rows.Next() {
		values := make([]any, len(t.Columns))
		dests := make([]any, len(t.Columns))
		for i := range t.Columns {
			switch t.Columns[i].Type {
			case TypeInteger:
				dests[i] = new(sql.NullInt64)
			case TypeReal:
				dests[i] = new(sql.NullFloat64)
			default:
				dests[i] = new(sql.NullString)
			}
		}
		if err := rows.Scan(dests...); err != nil {
			return Table{}, fmt.Errorf("scanning %s: %w", name, err)
		}
		for i := range dests {
			switch v := dests[i].(type) {
			case *sql.NullInt64:
				if v.Valid {
					values[i] = v.Int64
				}
			case *sql.NullFloat64:
				if v.Valid {
					values[i] = v.Float64
				}
			case *sql.NullString:
				if v.Valid {
					values[i] = v.String
				}
			}
		}
		t.Rows = append(t.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return Table{}, err
	}

	return t, nil
}

// storeType maps a database type name back to a store column type.
func storeType(dbType string) string {
	up := strings.ToUpper(dbType)
	switch {
	case strings.Contains(up, "INT"):
		return TypeInteger
	case strings.Contains(up, "REAL"),
		strings.Contains(up, "FLOAT"),
		strings.Contains(up, "DOUBLE"),
		strings.Contains(up, "NUMERIC"),
		strings.Contains(up, "DECIMAL"):
		return TypeReal
	default:
		return TypeText
	}
}
