package history

import (
	"encoding/json"
	"time"
)

// webkitEpochOffset is the number of microseconds between the WebKit epoch
// (1601-01-01 UTC) and the Unix epoch.
const webkitEpochOffset int64 = 11644473600 * 1000000

// Timestamp is an absolute instant converted from a WebKit timestamp. The
// zero value means unknown or never; it orders before every known instant.
type Timestamp struct {
	time.Time
}

// FromWebKit converts microseconds since 1601-01-01 UTC. Zero stays zero.
func FromWebKit(us int64) Timestamp {
	if us == 0 {
		return Timestamp{}
	}
	return Timestamp{time.UnixMicro(us - webkitEpochOffset).UTC()}
}

// Known reports whether the timestamp carries an instant.
func (t Timestamp) Known() bool { return !t.Time.IsZero() }

// Before orders unknown timestamps first.
func (t Timestamp) Before(u Timestamp) bool { return t.Time.Before(u.Time) }

// String formats the instant as RFC 3339 in UTC, or "" when unknown.
func (t Timestamp) String() string {
	if !t.Known() {
		return ""
	}
	return t.Time.UTC().Format(time.RFC3339Nano)
}

// MarshalJSON encodes the same text as String.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts the text written by MarshalJSON, including "".
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = Timestamp{parsed.UTC()}
	return nil
}

// Visit is one visit to an entry's url.
type Visit struct {
	ID         int64     `json:"-"`
	Time       Timestamp `json:"visit_time"`
	RawTime    int64     `json:"visit_timestamp"`
	Duration   int64     `json:"duration"` // microseconds
	Transition int64     `json:"transition"`
	Referrer   string    `json:"referrer"`
}

// Entry is one url with its aggregated visits and search terms.
type Entry struct {
	ID            int64     `json:"id"`
	URL           string    `json:"url"`
	Title         string    `json:"title"`
	VisitCount    int64     `json:"visit_count"`
	TypedCount    int64     `json:"typed_count"`
	LastVisitTime Timestamp `json:"last_visit_time"`
	LastVisitRaw  int64     `json:"last_visit_timestamp"`
	Domain        string    `json:"domain"`
	Visits        []Visit   `json:"visits"`
	SearchTerms   []string  `json:"search_terms"`
	Category      string    `json:"category"`
}
