package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// tableSpec names a table and the columns the reader depends on.
type tableSpec struct {
	Name    string
	Columns []string
}

// requiredSchema lists every table and column the reader queries.
var requiredSchema = []tableSpec{
	{"urls", []string{"id", "url", "title", "visit_count", "typed_count", "last_visit_time", "hidden"}},
	{"visits", []string{"id", "url", "visit_time", "visit_duration", "transition", "external_referrer_url"}},
	{"keyword_search_terms", []string{"url_id", "term"}},
}

// CheckSchema verifies that every required table and column exists. It
// returns a *SchemaError naming the first missing one.
func CheckSchema(ctx context.Context, db *sql.DB) error {
	for _, spec := range requiredSchema {
		have, err := tableColumns(ctx, db, spec.Name)
		if err != nil {
			return fmt.Errorf("inspect table %s: %w", spec.Name, err)
		}
		if len(have) == 0 {
			return &SchemaError{Table: spec.Name}
		}
		for _, col := range spec.Columns {
			if !have[col] {
				return &SchemaError{Table: spec.Name, Column: col}
			}
		}
	}
	return nil
}

// tableColumns returns the set of column names of a table; empty when the
// table does not exist.
func tableColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}

// CreateHistorySchema creates the subset of the Chromium History schema the
// reader uses. It builds fixture databases for tests and local trials.
func CreateHistorySchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS urls (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			url             LONGVARCHAR,
			title           LONGVARCHAR,
			visit_count     INTEGER DEFAULT 0 NOT NULL,
			typed_count     INTEGER DEFAULT 0 NOT NULL,
			last_visit_time INTEGER NOT NULL,
			hidden          INTEGER DEFAULT 0 NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS visits (
			id                    INTEGER PRIMARY KEY AUTOINCREMENT,
			url                   INTEGER NOT NULL,
			visit_time            INTEGER NOT NULL,
			from_visit            INTEGER,
			transition            INTEGER DEFAULT 0 NOT NULL,
			segment_id            INTEGER,
			visit_duration        INTEGER DEFAULT 0 NOT NULL,
			external_referrer_url TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS keyword_search_terms (
			keyword_id      INTEGER NOT NULL,
			url_id          INTEGER NOT NULL,
			term            LONGVARCHAR NOT NULL,
			normalized_term LONGVARCHAR NOT NULL
		)`,

		`CREATE INDEX IF NOT EXISTS urls_url_index ON urls (url)`,
		`CREATE INDEX IF NOT EXISTS visits_url_index ON visits (url)`,
		`CREATE INDEX IF NOT EXISTS visits_time_index ON visits (visit_time)`,
		`CREATE INDEX IF NOT EXISTS keyword_search_terms_index2 ON keyword_search_terms (url_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
