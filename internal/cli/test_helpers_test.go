package cli

import (
	"bytes"
	"database/sql"
	"io"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/histdump/internal/config"
	"github.com/runnerr0/histdump/internal/storage"
)

// captureOutput captures stdout during fn execution and returns it as a string.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = io.Copy(&buf, r)
	return buf.String()
}

// testHistory writes a small History database and returns its path.
func testHistory(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "History")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, storage.CreateHistorySchema(db))
	for _, stmt := range []string{
		`INSERT INTO urls (id, url, title, visit_count, typed_count, last_visit_time, hidden) VALUES
			(1, 'https://github.com/foo', 'Foo', 12, 2, 13350000000000000, 0),
			(2, 'https://github.com/bar', 'Bar', 3, 0, 13349000000000000, 0),
			(3, 'https://www.amazon.com/dp/9', '買い物', 1, 0, 13348000000000000, 0),
			(4, 'https://hidden.example/', 'Hidden', 50, 0, 13351000000000000, 1)`,
		`INSERT INTO visits (id, url, visit_time, visit_duration, transition, external_referrer_url) VALUES
			(1, 1, 13350000000000000, 0, 1, ''),
			(2, 1, 13349900000000000, 0, 1, ''),
			(3, 2, 13349000000000000, 0, 0, ''),
			(4, 4, 13351000000000000, 0, 0, '')`,
		`INSERT INTO keyword_search_terms (keyword_id, url_id, term, normalized_term) VALUES
			(1, 1, 'foo', 'foo')`,
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path
}

// testConfig returns defaults pointing at source, with output and snapshots
// under temp dirs.
func testConfig(t *testing.T, source string) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Source.Path = source
	cfg.Source.TempDir = t.TempDir()
	cfg.Output.Dir = t.TempDir()
	return cfg
}
