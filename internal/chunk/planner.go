package chunk

import (
	"time"

	"github.com/runnerr0/histdump/internal/history"
)

// Chunk is an ordered, contiguous run of entries emitted as one output unit.
// Entries aliases the planner's input slice.
type Chunk struct {
	ID              int
	Total           int
	Entries         []history.Entry
	EstimatedTokens int
	ExtractionDate  time.Time
	Categories      []string
}

// Planner packs entries greedily in their original order.
type Planner struct {
	estimator   TokenEstimator
	categories  []string
	extractedAt time.Time
}

// NewPlanner returns a planner that stamps every chunk with the run's
// extraction time and the full category enumeration.
func NewPlanner(estimator TokenEstimator, categories []string, extractedAt time.Time) *Planner {
	return &Planner{
		estimator:   estimator,
		categories:  categories,
		extractedAt: extractedAt,
	}
}

// Plan partitions entries into chunks whose estimate stays within budget.
// An entry that alone exceeds the budget gets a chunk of its own. An empty
// input yields no chunks.
func (p *Planner) Plan(entries []history.Entry, budget int) ([]*Chunk, error) {
	if err := ValidateBudget(budget); err != nil {
		return nil, err
	}

	chunks := p.pack(entries, budget)
	Finalize(chunks)
	return chunks, nil
}

// pack builds provisional chunks; Total is left at zero.
func (p *Planner) pack(entries []history.Entry, budget int) []*Chunk {
	chunks := []*Chunk{}
	start, running := 0, 0

	for i := range entries {
		cost := p.estimator.Estimate(&entries[i])
		if i > start && running+cost > budget {
			chunks = append(chunks, p.newChunk(len(chunks)+1, entries[start:i], running))
			start, running = i, 0
		}
		running += cost
	}
	if start < len(entries) {
		chunks = append(chunks, p.newChunk(len(chunks)+1, entries[start:], running))
	}

	return chunks
}

func (p *Planner) newChunk(id int, entries []history.Entry, tokens int) *Chunk {
	return &Chunk{
		ID:              id,
		Entries:         entries[:len(entries):len(entries)],
		EstimatedTokens: tokens,
		ExtractionDate:  p.extractedAt,
		Categories:      p.categories,
	}
}

// Finalize stamps the final chunk count on every chunk.
func Finalize(chunks []*Chunk) {
	for _, c := range chunks {
		c.Total = len(chunks)
	}
}
