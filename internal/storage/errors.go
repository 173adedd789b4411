package storage

import "fmt"

// UnavailableError reports a source database that is missing, locked,
// unreadable or not a SQLite file.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("history database unavailable at %s: %v", e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// SchemaError reports a required table or column missing from the source.
// Column is empty when the whole table is missing.
type SchemaError struct {
	Table  string
	Column string
}

func (e *SchemaError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("history schema: missing table %q", e.Table)
	}
	return fmt.Sprintf("history schema: table %q is missing column %q", e.Table, e.Column)
}

// RowError reports a row that could not be read. Rows are never skipped.
type RowError struct {
	Table string
	Row   int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("read %s row %d: %v", e.Table, e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
