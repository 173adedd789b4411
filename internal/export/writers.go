// Package export serializes entries, chunks and statistics.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/runnerr0/histdump/internal/chunk"
	"github.com/runnerr0/histdump/internal/history"
	"github.com/runnerr0/histdump/internal/stats"
)

// Metadata heads the single-file JSON document.
type Metadata struct {
	TotalEntries   int      `json:"total_entries"`
	ExtractionDate string   `json:"extraction_date"`
	Categories     []string `json:"categories"`
}

// Document is the single-file JSON output.
type Document struct {
	Metadata Metadata        `json:"metadata"`
	History  []history.Entry `json:"history"`
}

// ChunkInfo heads every chunk file. TotalEntries counts the chunk only.
type ChunkInfo struct {
	ChunkID         int      `json:"chunk_id"`
	TotalChunks     int      `json:"total_chunks"`
	TotalEntries    int      `json:"total_entries"`
	EstimatedTokens int      `json:"estimated_tokens"`
	ExtractionDate  string   `json:"extraction_date"`
	Categories      []string `json:"categories"`
}

// ChunkDocument is the JSON output of one chunk.
type ChunkDocument struct {
	ChunkInfo ChunkInfo       `json:"chunk_info"`
	History   []history.Entry `json:"history"`
}

// CSVHeader is the fixed column set of the CSV output.
var CSVHeader = []string{"url", "title", "domain", "category", "visit_count", "last_visit_time"}

// FormatDate renders the extraction time.
func FormatDate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// WriteJSON writes the single-file document.
func WriteJSON(w io.Writer, entries []history.Entry, categories []string, extractedAt time.Time) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	return encode(w, Document{
		Metadata: Metadata{
			TotalEntries:   len(entries),
			ExtractionDate: FormatDate(extractedAt),
			Categories:     categories,
		},
		History: entries,
	})
}

// WriteChunk writes one chunk document.
func WriteChunk(w io.Writer, c *chunk.Chunk) error {
	return encode(w, ChunkDocument{
		ChunkInfo: ChunkInfo{
			ChunkID:         c.ID,
			TotalChunks:     c.Total,
			TotalEntries:    len(c.Entries),
			EstimatedTokens: c.EstimatedTokens,
			ExtractionDate:  FormatDate(c.ExtractionDate),
			Categories:      c.Categories,
		},
		History: c.Entries,
	})
}

// ChunkFileName names a chunk file, e.g. prefix_002_of_013.json.
func ChunkFileName(prefix string, c *chunk.Chunk) string {
	return fmt.Sprintf("%s_%03d_of_%03d.json", prefix, c.ID, c.Total)
}

// ChunkFilePattern matches every chunk file name for prefix.
func ChunkFilePattern(prefix string) string {
	return prefix + "_*_of_*.json"
}

// WriteStats writes the statistics document.
func WriteStats(w io.Writer, s *stats.Summary) error {
	return encode(w, s)
}

// WriteCSV writes the header and one row per entry.
func WriteCSV(w io.Writer, entries []history.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			e.URL,
			e.Title,
			e.Domain,
			e.Category,
			strconv.FormatInt(e.VisitCount, 10),
			e.LastVisitTime.String(),
		}); err != nil {
			return fmt.Errorf("write csv row %d: %w", e.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func encode(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
