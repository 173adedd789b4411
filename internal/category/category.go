// Package category assigns every history entry exactly one label from a
// fixed enumeration using an ordered, first-match-wins rule list.
package category

import "strings"

// Labels of the fixed enumeration.
const (
	Development   = "Development & Tech"
	Learning      = "Learning & Education"
	Work          = "Work & Productivity"
	News          = "News & Information"
	Social        = "Social Media"
	Shopping      = "Shopping"
	Entertainment = "Entertainment"
	Other         = "Other"
)

// Matcher reports whether a rule applies to a url and its derived domain.
type Matcher func(rawURL, domain string) bool

// Rule pairs a matcher with the label it assigns.
type Rule struct {
	Name  string
	Match Matcher
	Label string
}

// Taxonomy is the label enumeration plus the ordered rule list. It is built
// once per run and shared read-only by every consumer.
type Taxonomy struct {
	labels []string
	rules  []Rule
}

// New builds a taxonomy. Rules are evaluated in the given order; the first
// match wins. Labels referenced by rules must appear in labels, and labels
// must contain Other.
func New(labels []string, rules []Rule) *Taxonomy {
	return &Taxonomy{
		labels: append([]string(nil), labels...),
		rules:  append([]Rule(nil), rules...),
	}
}

// Labels returns a copy of the label enumeration in declaration order.
func (t *Taxonomy) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Rules returns a copy of the ordered rule list.
func (t *Taxonomy) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Categorize returns the label of the first matching rule, or Other.
func (t *Taxonomy) Categorize(rawURL, domain string) string {
	u := strings.ToLower(rawURL)
	d := strings.ToLower(domain)
	for _, r := range t.rules {
		if r.Match(u, d) {
			return r.Label
		}
	}
	return Other
}

// HostSuffix matches a domain equal to suffix or ending in "."+suffix.
func HostSuffix(suffix string) Matcher {
	suffix = strings.ToLower(strings.TrimPrefix(suffix, "."))
	return func(_, domain string) bool {
		return domain == suffix || strings.HasSuffix(domain, "."+suffix)
	}
}

// HostPrefix matches a domain starting with prefix.
func HostPrefix(prefix string) Matcher {
	prefix = strings.ToLower(prefix)
	return func(_, domain string) bool {
		return strings.HasPrefix(domain, prefix)
	}
}

// HostContains matches a domain containing any of the keywords.
func HostContains(keywords ...string) Matcher {
	return func(_, domain string) bool {
		for _, k := range keywords {
			if strings.Contains(domain, k) {
				return true
			}
		}
		return false
	}
}

// URLContains matches a url containing fragment anywhere.
func URLContains(fragment string) Matcher {
	fragment = strings.ToLower(fragment)
	return func(rawURL, _ string) bool {
		return strings.Contains(rawURL, fragment)
	}
}

// AnyHost matches a domain equal to, or a subdomain of, any of the hosts.
func AnyHost(hosts ...string) Matcher {
	ms := make([]Matcher, len(hosts))
	for i, h := range hosts {
		ms[i] = HostSuffix(h)
	}
	return func(rawURL, domain string) bool {
		for _, m := range ms {
			if m(rawURL, domain) {
				return true
			}
		}
		return false
	}
}
