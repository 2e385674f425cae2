// Package normalize cleans user-entered identity fields before they are
// validated and stored.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses runs of whitespace to a single space. Case is
// preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Username trims surrounding whitespace. Usernames are case-sensitive, so
// nothing else changes.
func Username(s string) string {
	return strings.TrimSpace(s)
}
