package util

import (
	"net/url"
	pathpkg "path"
	"strings"
)

// URLPathBase returns the last path element of a URL as a short display
// label (journal rows, add-toast text). A URL with no usable path falls
// back to its host, then to the input itself.
func URLPathBase(u string) string {
	s := strings.TrimSpace(u)
	if s == "" {
		return s
	}
	pu, err := url.Parse(s)
	if err != nil {
		if i := strings.IndexAny(s, "?#"); i >= 0 {
			s = s[:i]
		}
		if b := pathpkg.Base(s); b != "" && b != "/" && b != "." {
			return b
		}
		return s
	}
	if b := pathpkg.Base(pu.Path); b != "" && b != "/" && b != "." {
		return b
	}
	if pu.Host != "" {
		return pu.Host
	}
	return s
}
