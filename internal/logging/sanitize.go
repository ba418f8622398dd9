package logging

import (
	"net/url"
	"strings"
)

// SanitizeURL strips userinfo, query, and fragment so a URL can be
// logged or journaled without leaking tokens. Unparsable input comes
// back unchanged.
func SanitizeURL(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return s
	}
	u, err := url.Parse(s)
	if err != nil {
		return s
	}
	u.User = nil
	u.RawQuery = ""
	u.Fragment = ""
	return u.String()
}
