// Package htmlsanitize cleans user-supplied text before it is stored.
//
// Task descriptions may carry simple formatting and go through Sanitize.
// Names, titles and stage labels are plain text and go through StripTags.
package htmlsanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize removes scripts, event handlers and unsafe URLs while keeping
// ordinary formatting markup.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// StripTags removes all markup and returns trimmed plain text.
func StripTags(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains nothing that looks like a tag.
func IsPlainText(s string) bool {
	return !(strings.Contains(s, "<") && strings.Contains(s, ">"))
}
