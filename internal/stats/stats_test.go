package stats

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/runnerr0/histdump/internal/category"
	"github.com/runnerr0/histdump/internal/history"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jan2024 int64 = (1704067200 + 11644473600) * 1000000

func entry(id int64, domain, cat string, visitCount int64, visits int, terms ...string) history.Entry {
	e := history.Entry{
		ID:          id,
		URL:         "https://" + domain + "/",
		Domain:      domain,
		Category:    cat,
		VisitCount:  visitCount,
		Visits:      make([]history.Visit, visits),
		SearchTerms: terms,
	}
	return e
}

func TestAggregate_Empty(t *testing.T) {
	s := Aggregate(nil, category.Default())

	assert.Equal(t, 0, s.TotalEntries)
	assert.Equal(t, 0, s.TotalVisits)
	assert.Equal(t, 0, s.TotalSearchTerms)
	assert.Nil(t, s.TopDomain)
	assert.Empty(t, s.TopDomains)
	assert.Len(t, s.Categories, len(category.DefaultLabels()))
	for _, label := range category.DefaultLabels() {
		assert.Equal(t, 0, s.Categories[label], label)
	}
	assert.False(t, s.DateRange.Oldest.Known())
}

func TestAggregate_Counts(t *testing.T) {
	entries := []history.Entry{
		entry(1, "github.com", category.Development, 5, 2, "go", "sqlite"),
		entry(2, "news.example", category.News, 9, 3, "go"),
		entry(3, "github.com", category.Development, 9, 0),
		entry(4, "shop.example", category.Shopping, 1, 1, "shoes"),
	}

	s := Aggregate(entries, category.Default())

	assert.Equal(t, 4, s.TotalEntries)
	assert.Equal(t, 6, s.TotalVisits, "sum of visit records, not visit_count")
	assert.Equal(t, 3, s.TotalSearchTerms, "terms deduplicated across entries")

	assert.Equal(t, 2, s.Categories[category.Development])
	assert.Equal(t, 1, s.Categories[category.News])
	assert.Equal(t, 1, s.Categories[category.Shopping])
	assert.Equal(t, 0, s.Categories[category.Social])
	assert.Equal(t, 0, s.Categories[category.Other])
	assert.Len(t, s.Categories, 8)

	// Entries 2 and 3 tie at 9; the earlier one wins.
	require.NotNil(t, s.TopDomain)
	assert.Equal(t, "news.example", s.TopDomain.Domain)
	assert.Equal(t, int64(9), s.TopDomain.VisitCount)

	assert.Equal(t, []DomainCount{
		{"github.com", 2},
		{"news.example", 1},
		{"shop.example", 1},
	}, s.TopDomains)
}

func TestAggregate_TopDomainsCapped(t *testing.T) {
	var entries []history.Entry
	for i := 0; i < 30; i++ {
		entries = append(entries, entry(int64(i+1), fmt.Sprintf("d%02d.example", i), category.Other, 0, 0))
	}
	s := Aggregate(entries, category.Default())
	require.Len(t, s.TopDomains, 20)
	assert.Equal(t, "d00.example", s.TopDomains[0].Domain)
	assert.Equal(t, "d19.example", s.TopDomains[19].Domain)
}

func TestAggregate_DateRangeSkipsUnknown(t *testing.T) {
	a := entry(1, "a.example", category.Other, 0, 0)
	a.LastVisitTime = history.FromWebKit(jan2024)
	b := entry(2, "b.example", category.Other, 0, 0)
	b.LastVisitTime = history.FromWebKit(0)
	c := entry(3, "c.example", category.Other, 0, 0)
	c.LastVisitTime = history.FromWebKit(jan2024 - 86400*1000000)

	s := Aggregate([]history.Entry{a, b, c}, category.Default())
	assert.Equal(t, "2023-12-31T00:00:00Z", s.DateRange.Oldest.String())
	assert.Equal(t, "2024-01-01T00:00:00Z", s.DateRange.Newest.String())
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	entries := []history.Entry{entry(1, "a.example", category.Other, 1, 1, "x")}
	before := fmt.Sprintf("%+v", entries)
	Aggregate(entries, category.Default())
	assert.Equal(t, before, fmt.Sprintf("%+v", entries))
}

func TestSummary_JSONShape(t *testing.T) {
	s := Aggregate([]history.Entry{entry(1, "github.com", category.Development, 4, 1)}, category.Default())
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	for _, key := range []string{"total_entries", "total_visits", "total_search_terms", "top_domain", "categories", "top_domains", "date_range"} {
		assert.Contains(t, decoded, key)
	}
	assert.Equal(t, map[string]interface{}{"domain": "github.com", "visit_count": float64(4)}, decoded["top_domain"])
}
