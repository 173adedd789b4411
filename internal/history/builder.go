// Package history joins raw history rows into categorized entries.
package history

import (
	"fmt"
	"sort"

	"github.com/runnerr0/histdump/internal/category"
	"github.com/runnerr0/histdump/internal/storage"
)

// BuildError reports rows that cannot be joined into a valid entry. The run
// aborts on it; there is no best-effort mode.
type BuildError struct {
	Table  string
	ID     int64
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("build entry from %s id %d: %s", e.Table, e.ID, e.Reason)
}

// Builder turns raw rows into entries using a shared taxonomy.
type Builder struct {
	taxonomy *category.Taxonomy
}

// NewBuilder returns a builder that categorizes with taxonomy.
func NewBuilder(taxonomy *category.Taxonomy) *Builder {
	return &Builder{taxonomy: taxonomy}
}

// Build emits exactly one entry per url row, in url row order. Visits are
// sorted by time and search terms deduplicated and sorted.
func (b *Builder) Build(urls []storage.URLRow, visits []storage.VisitRow, terms []storage.SearchTermRow) ([]Entry, error) {
	index := make(map[int64]int, len(urls))
	entries := make([]Entry, len(urls))

	for i, u := range urls {
		if u.URL == "" {
			return nil, &BuildError{Table: "urls", ID: u.ID, Reason: "empty url"}
		}
		if _, dup := index[u.ID]; dup {
			return nil, &BuildError{Table: "urls", ID: u.ID, Reason: "duplicate id"}
		}
		index[u.ID] = i

		domain := Domain(u.URL)
		entries[i] = Entry{
			ID:            u.ID,
			URL:           u.URL,
			Title:         u.Title,
			VisitCount:    nonNegative(u.VisitCount),
			TypedCount:    nonNegative(u.TypedCount),
			LastVisitTime: FromWebKit(u.LastVisitTime),
			LastVisitRaw:  u.LastVisitTime,
			Domain:        domain,
			Visits:        []Visit{},
			SearchTerms:   []string{},
			Category:      b.taxonomy.Categorize(u.URL, domain),
		}
	}

	for _, v := range visits {
		i, ok := index[v.URLID]
		if !ok {
			return nil, &BuildError{Table: "visits", ID: v.ID, Reason: fmt.Sprintf("unknown url id %d", v.URLID)}
		}
		entries[i].Visits = append(entries[i].Visits, Visit{
			ID:         v.ID,
			Time:       FromWebKit(v.VisitTime),
			RawTime:    v.VisitTime,
			Duration:   v.Duration,
			Transition: v.Transition,
			Referrer:   v.Referrer,
		})
	}

	seen := make(map[int64]map[string]bool)
	for _, s := range terms {
		i, ok := index[s.URLID]
		if !ok {
			return nil, &BuildError{Table: "keyword_search_terms", ID: s.URLID, Reason: "unknown url id"}
		}
		if s.Term == "" {
			continue
		}
		if seen[s.URLID] == nil {
			seen[s.URLID] = make(map[string]bool)
		}
		if seen[s.URLID][s.Term] {
			continue
		}
		seen[s.URLID][s.Term] = true
		entries[i].SearchTerms = append(entries[i].SearchTerms, s.Term)
	}

	for i := range entries {
		sortVisits(entries[i].Visits)
		sort.Strings(entries[i].SearchTerms)
	}

	return entries, nil
}

// sortVisits orders by raw time, then visit id for equal times.
func sortVisits(vs []Visit) {
	sort.SliceStable(vs, func(i, j int) bool {
		if vs[i].RawTime != vs[j].RawTime {
			return vs[i].RawTime < vs[j].RawTime
		}
		return vs[i].ID < vs[j].ID
	})
}

func nonNegative(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
