package history

import (
	"net/url"
	"strings"
)

// Domain returns the lower-cased host of rawURL. When no host can be parsed
// it falls back to the lower-cased raw url, so it never fails.
func Domain(rawURL string) string {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err == nil {
		if host := u.Hostname(); host != "" {
			return strings.ToLower(host)
		}
	}
	return strings.ToLower(rawURL)
}
