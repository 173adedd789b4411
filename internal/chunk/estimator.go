// Package chunk splits the ordered entry set into token-budgeted chunks.
package chunk

import (
	"unicode/utf8"

	"github.com/runnerr0/histdump/internal/history"
)

// Default estimator parameters.
const (
	DefaultCharsPerToken = 4
	DefaultEntryOverhead = 40
	DefaultVisitOverhead = 8
)

// TokenEstimator approximates the serialized token cost of an entry.
type TokenEstimator interface {
	Estimate(e *history.Entry) int
}

// Estimator is a character-count heuristic, not a tokenizer. It counts the
// runes of every free-text field, divides by CharsPerToken rounding up, and
// adds a fixed structural overhead per entry and per visit. Whitespace and
// layout of the final serializer never enter the count.
type Estimator struct {
	CharsPerToken int
	EntryOverhead int
	VisitOverhead int
}

// NewEstimator returns an estimator with the default parameters.
func NewEstimator() *Estimator {
	return &Estimator{
		CharsPerToken: DefaultCharsPerToken,
		EntryOverhead: DefaultEntryOverhead,
		VisitOverhead: DefaultVisitOverhead,
	}
}

// Estimate never fails and never decreases when text is appended to any field.
func (est *Estimator) Estimate(e *history.Entry) int {
	chars := utf8.RuneCountInString(e.URL) + utf8.RuneCountInString(e.Title)
	for _, term := range e.SearchTerms {
		chars += utf8.RuneCountInString(term)
	}
	for _, v := range e.Visits {
		chars += utf8.RuneCountInString(v.Referrer)
	}

	ratio := est.CharsPerToken
	if ratio <= 0 {
		ratio = DefaultCharsPerToken
	}

	tokens := (chars + ratio - 1) / ratio
	tokens += nonNegative(est.EntryOverhead)
	tokens += len(e.Visits) * nonNegative(est.VisitOverhead)
	return tokens
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
