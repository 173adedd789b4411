// Package storage reads the urls, visits and keyword_search_terms tables of
// a Chromium history database.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Reader is a read-only accessor over a history database.
type Reader struct {
	db   *sql.DB
	opts Options
	owns bool
}

// Open opens the database at path read-only and verifies it is a SQLite
// file. It does not check the schema; call CheckSchema for that.
func Open(ctx context.Context, path string, opts Options) (*Reader, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_query_only=1")
	if err != nil {
		return nil, &UnavailableError{Path: path, Err: err}
	}

	// sqlite opens lazily; touching sqlite_master surfaces missing, locked
	// and non-database files.
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master").Scan(&n); err != nil {
		db.Close()
		return nil, &UnavailableError{Path: path, Err: err}
	}

	return &Reader{db: db, opts: opts, owns: true}, nil
}

// NewReader wraps an already-open database. The caller keeps ownership of db.
func NewReader(db *sql.DB, opts Options) *Reader {
	return &Reader{db: db, opts: opts}
}

// CheckSchema verifies the tables and columns the reader depends on.
func (r *Reader) CheckSchema(ctx context.Context) error {
	return CheckSchema(ctx, r.db)
}

// visibleURL is the urls filter shared by every query.
func (r *Reader) visibleURL(alias string) string {
	clause := alias + "url != ''"
	if !r.opts.IncludeHidden {
		clause += " AND " + alias + "hidden = 0"
	}
	return clause
}

// URLs returns every visible url row, most recently visited first. Rows with
// equal last_visit_time keep id order so the result is deterministic.
func (r *Reader) URLs(ctx context.Context) ([]URLRow, error) {
	query := `
		SELECT id, url, title, visit_count, typed_count, last_visit_time, hidden
		FROM urls
		WHERE ` + r.visibleURL("") + `
		ORDER BY last_visit_time DESC, id ASC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query urls: %w", err)
	}
	defer rows.Close()

	result := []URLRow{}
	for rows.Next() {
		var u URLRow
		var title sql.NullString
		if err := rows.Scan(
			&u.ID, &u.URL, &title, &u.VisitCount, &u.TypedCount, &u.LastVisitTime, &u.Hidden,
		); err != nil {
			return nil, &RowError{Table: "urls", Row: len(result) + 1, Err: err}
		}
		u.Title = title.String
		result = append(result, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read urls: %w", err)
	}
	return result, nil
}

// Visits returns the visits of every visible url, grouped by url and ordered
// by time within each url.
func (r *Reader) Visits(ctx context.Context) ([]VisitRow, error) {
	query := `
		SELECT v.id, v.url, v.visit_time, v.visit_duration, v.transition, v.external_referrer_url
		FROM visits v
		JOIN urls u ON u.id = v.url
		WHERE ` + r.visibleURL("u.") + `
		ORDER BY v.url, v.visit_time, v.id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	result := []VisitRow{}
	for rows.Next() {
		var v VisitRow
		var referrer sql.NullString
		if err := rows.Scan(
			&v.ID, &v.URLID, &v.VisitTime, &v.Duration, &v.Transition, &referrer,
		); err != nil {
			return nil, &RowError{Table: "visits", Row: len(result) + 1, Err: err}
		}
		v.Referrer = referrer.String
		result = append(result, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read visits: %w", err)
	}
	return result, nil
}

// SearchTerms returns the keyword search terms of every visible url.
func (r *Reader) SearchTerms(ctx context.Context) ([]SearchTermRow, error) {
	query := `
		SELECT k.url_id, k.term
		FROM keyword_search_terms k
		JOIN urls u ON u.id = k.url_id
		WHERE ` + r.visibleURL("u.") + `
		ORDER BY k.url_id, k.term
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query keyword_search_terms: %w", err)
	}
	defer rows.Close()

	result := []SearchTermRow{}
	for rows.Next() {
		var s SearchTermRow
		var term sql.NullString
		if err := rows.Scan(&s.URLID, &term); err != nil {
			return nil, &RowError{Table: "keyword_search_terms", Row: len(result) + 1, Err: err}
		}
		s.Term = term.String
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read keyword_search_terms: %w", err)
	}
	return result, nil
}

// Close closes the database if the reader opened it.
func (r *Reader) Close() error {
	if r.owns {
		return r.db.Close()
	}
	return nil
}
