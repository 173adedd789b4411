package storage

// URLRow is one row of the urls table.
type URLRow struct {
	ID            int64
	URL           string
	Title         string
	VisitCount    int64
	TypedCount    int64
	LastVisitTime int64 // WebKit microseconds, 0 = never
	Hidden        bool
}

// VisitRow is one row of the visits table.
type VisitRow struct {
	ID         int64
	URLID      int64
	VisitTime  int64 // WebKit microseconds
	Duration   int64 // microseconds
	Transition int64
	Referrer   string
}

// SearchTermRow is one row of the keyword_search_terms table.
type SearchTermRow struct {
	URLID int64
	Term  string
}

// Options controls which rows the reader returns.
type Options struct {
	IncludeHidden bool
}
