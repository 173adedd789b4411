package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/runnerr0/histdump/internal/category"
	"github.com/runnerr0/histdump/internal/chunk"
	"github.com/runnerr0/histdump/internal/history"
	"github.com/runnerr0/histdump/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jan2024 int64 = (1704067200 + 11644473600) * 1000000

var extractedAt = time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

func sampleEntries() []history.Entry {
	return []history.Entry{
		{
			ID: 1, URL: "https://github.com/a?x=1&y=<2>", Title: `Quote "me", please`,
			Domain: "github.com", Category: category.Development, VisitCount: 3,
			LastVisitTime: history.FromWebKit(jan2024), LastVisitRaw: jan2024,
			Visits: []history.Visit{}, SearchTerms: []string{},
		},
		{
			ID: 2, URL: "https://example.com/", Title: "",
			Domain: "example.com", Category: category.Other,
			Visits: []history.Visit{}, SearchTerms: []string{},
		},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleEntries(), category.DefaultLabels(), extractedAt))

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	meta := doc["metadata"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["total_entries"])
	assert.Equal(t, "2025-06-01T12:30:00Z", meta["extraction_date"])
	assert.Len(t, meta["categories"], 8, "full enumeration, not only present labels")

	hist := doc["history"].([]interface{})
	require.Len(t, hist, 2)
	assert.Equal(t, "https://github.com/a?x=1&y=<2>", hist[0].(map[string]interface{})["url"])
	assert.Contains(t, buf.String(), "&y=<2>", "HTML characters are not escaped")
}

func TestWriteJSON_EmptyHistoryIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, nil, category.DefaultLabels(), extractedAt))

	var doc Document
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Contains(t, buf.String(), `"history": []`)
	assert.Equal(t, 0, doc.Metadata.TotalEntries)
}

func TestWriteJSON_Deterministic(t *testing.T) {
	var a, b bytes.Buffer
	require.NoError(t, WriteJSON(&a, sampleEntries(), category.DefaultLabels(), extractedAt))
	require.NoError(t, WriteJSON(&b, sampleEntries(), category.DefaultLabels(), extractedAt))
	assert.Equal(t, a.String(), b.String())
}

func TestWriteChunk(t *testing.T) {
	entries := sampleEntries()
	c := &chunk.Chunk{
		ID: 2, Total: 5, Entries: entries[1:], EstimatedTokens: 77,
		ExtractionDate: extractedAt, Categories: category.DefaultLabels(),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteChunk(&buf, c))

	var doc ChunkDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, ChunkInfo{
		ChunkID:         2,
		TotalChunks:     5,
		TotalEntries:    1,
		EstimatedTokens: 77,
		ExtractionDate:  "2025-06-01T12:30:00Z",
		Categories:      category.DefaultLabels(),
	}, doc.ChunkInfo)
	require.Len(t, doc.History, 1)
	assert.Equal(t, int64(2), doc.History[0].ID)
}

func TestChunkFileName(t *testing.T) {
	c := &chunk.Chunk{ID: 3, Total: 12}
	name := ChunkFileName("comet_history_chunk", c)
	assert.Equal(t, "comet_history_chunk_003_of_012.json", name)

	ok, err := filepath.Match(ChunkFilePattern("comet_history_chunk"), name)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleEntries()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"url", "title", "domain", "category", "visit_count", "last_visit_time"}, records[0])
	assert.Equal(t, []string{
		"https://github.com/a?x=1&y=<2>", `Quote "me", please`, "github.com",
		"Development & Tech", "3", "2024-01-01T00:00:00Z",
	}, records[1])
	assert.Equal(t, "", records[2][5], "unknown last visit is empty")
}

func TestWriteStats(t *testing.T) {
	s := stats.Aggregate(sampleEntries(), category.Default())
	var buf bytes.Buffer
	require.NoError(t, WriteStats(&buf, s))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, float64(2), decoded["total_entries"])
	assert.Equal(t, map[string]interface{}{"domain": "github.com", "visit_count": float64(3)}, decoded["top_domain"])
}

func TestPublisher_CommitMovesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	p, err := NewPublisher(dir)
	require.NoError(t, err)

	require.NoError(t, p.Write("a.json", func(w io.Writer) error {
		_, err := io.WriteString(w, "{}")
		return err
	}))
	require.NoError(t, p.Write("b.csv", func(w io.Writer) error {
		_, err := io.WriteString(w, "x\n")
		return err
	}))

	// Nothing is visible before Commit.
	_, err = os.Stat(filepath.Join(dir, "a.json"))
	assert.True(t, os.IsNotExist(err))

	paths, err := p.Commit()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.csv")}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "a.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "staging directory removed")
}

func TestPublisher_FailedWriteLeavesNothing(t *testing.T) {
	dir := t.TempDir()
	p, err := NewPublisher(dir)
	require.NoError(t, err)

	require.NoError(t, p.Write("ok.json", func(w io.Writer) error { return nil }))
	boom := errors.New("boom")
	err = p.Write("bad.json", func(w io.Writer) error { return boom })
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	require.NoError(t, p.Abort())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestPublisher_RejectsNestedNames(t *testing.T) {
	p, err := NewPublisher(t.TempDir())
	require.NoError(t, err)
	defer p.Abort()

	err = p.Write("../escape.json", func(w io.Writer) error { return nil })
	assert.Error(t, err)
}

func TestPublisher_ReplaceMatchingRemovesStaleChunks(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "hist_003_of_003.json")
	keep := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))
	require.NoError(t, os.WriteFile(keep, []byte("mine"), 0644))

	p, err := NewPublisher(dir)
	require.NoError(t, err)
	p.ReplaceMatching(ChunkFilePattern("hist"))
	require.NoError(t, p.Write("hist_001_of_001.json", func(w io.Writer) error { return nil }))

	_, err = p.Commit()
	require.NoError(t, err)

	assert.NoFileExists(t, stale)
	assert.FileExists(t, keep)
	assert.FileExists(t, filepath.Join(dir, "hist_001_of_001.json"))
}

func TestPublisher_ClosedAfterCommit(t *testing.T) {
	p, err := NewPublisher(t.TempDir())
	require.NoError(t, err)
	_, err = p.Commit()
	require.NoError(t, err)

	assert.Error(t, p.Write("late.json", func(w io.Writer) error { return nil }))
	_, err = p.Commit()
	assert.Error(t, err)
	assert.NoError(t, p.Abort())
}
