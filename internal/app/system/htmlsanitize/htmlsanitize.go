// Package htmlsanitize cleans user-supplied text before it is stored.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// ugc keeps basic formatting, links and images for post bodies.
	ugc = bluemonday.UGCPolicy()
	// strict drops every tag; used for comments and messages.
	strict = bluemonday.StrictPolicy()
)

// Sanitize returns s with unsafe markup removed, keeping the UGC subset.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(ugc.Sanitize(s))
}

// PlainText strips all markup and returns unescaped text. Script and style
// element contents are dropped entirely.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
