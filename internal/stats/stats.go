// Package stats summarizes an extracted entry set in a single pass.
package stats

import (
	"sort"

	"github.com/runnerr0/histdump/internal/category"
	"github.com/runnerr0/histdump/internal/history"
)

// maxTopDomains bounds Summary.TopDomains.
const maxTopDomains = 20

// Summary holds aggregate statistics for one run.
type Summary struct {
	TotalEntries     int            `json:"total_entries"`
	TotalVisits      int            `json:"total_visits"`
	TotalSearchTerms int            `json:"total_search_terms"`
	TopDomain        *TopDomain     `json:"top_domain,omitempty"`
	Categories       map[string]int `json:"categories"`
	TopDomains       []DomainCount  `json:"top_domains"`
	DateRange        DateRange      `json:"date_range"`
}

// TopDomain is the domain of the single most visited entry.
type TopDomain struct {
	Domain     string `json:"domain"`
	VisitCount int64  `json:"visit_count"`
}

// DomainCount pairs a domain with the number of entries on it.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

// DateRange spans the known last-visit times. Unknown times are ignored.
type DateRange struct {
	Oldest history.Timestamp `json:"oldest"`
	Newest history.Timestamp `json:"newest"`
}

// Aggregate computes the summary of entries. Every label of the taxonomy
// appears in Categories, with zero when no entry carries it.
func Aggregate(entries []history.Entry, taxonomy *category.Taxonomy) *Summary {
	s := &Summary{
		TotalEntries: len(entries),
		Categories:   make(map[string]int),
		TopDomains:   []DomainCount{},
	}
	for _, label := range taxonomy.Labels() {
		s.Categories[label] = 0
	}

	terms := make(map[string]struct{})
	domainIndex := make(map[string]int)
	var domains []DomainCount
	top := -1

	for i := range entries {
		e := &entries[i]

		s.TotalVisits += len(e.Visits)
		s.Categories[e.Category]++
		for _, term := range e.SearchTerms {
			terms[term] = struct{}{}
		}

		if j, ok := domainIndex[e.Domain]; ok {
			domains[j].Count++
		} else {
			domainIndex[e.Domain] = len(domains)
			domains = append(domains, DomainCount{Domain: e.Domain, Count: 1})
		}

		// Strict comparison keeps the earliest entry on ties.
		if top < 0 || e.VisitCount > entries[top].VisitCount {
			top = i
		}

		if e.LastVisitTime.Known() {
			if !s.DateRange.Oldest.Known() || e.LastVisitTime.Before(s.DateRange.Oldest) {
				s.DateRange.Oldest = e.LastVisitTime
			}
			if s.DateRange.Newest.Before(e.LastVisitTime) {
				s.DateRange.Newest = e.LastVisitTime
			}
		}
	}

	s.TotalSearchTerms = len(terms)
	if top >= 0 {
		s.TopDomain = &TopDomain{Domain: entries[top].Domain, VisitCount: entries[top].VisitCount}
	}
	s.TopDomains = topDomains(domains, maxTopDomains)

	return s
}

// topDomains returns up to n domains by count, descending. Domains with equal
// counts keep first-appearance order.
func topDomains(domains []DomainCount, n int) []DomainCount {
	sorted := append([]DomainCount{}, domains...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Count > sorted[j].Count
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
