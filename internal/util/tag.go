// Package util provides text helpers shared across packages.
package util

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Matches runs of whitespace, including tabs and newlines.
var whitespaceRe = regexp.MustCompile(`\s+`)

// maxTagLength caps tag display values, measured in runes.
const maxTagLength = 50

var folder = cases.Fold()

// CleanTag normalizes user input for display while keeping the user's casing.
//
//	"  Slow   Burn " → "Slow Burn"
//	"Café"     → "Café" (NFC composed)
//
// Returns "" when nothing printable is left.
func CleanTag(input string) string {
	s := norm.NFC.String(input)
	s = whitespaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	if r := []rune(s); len(r) > maxTagLength {
		s = strings.TrimSpace(string(r[:maxTagLength]))
	}
	return s
}

// TagKey returns the identity used to compare tags: cleaned and case folded.
// "Sci-Fi" and "SCI-FI" share a key.
func TagKey(input string) string {
	return folder.String(CleanTag(input))
}

// DedupeTags cleans tags, drops empties, and removes case-insensitive duplicates.
// The first spelling seen wins and input order is kept.
func DedupeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		clean := CleanTag(t)
		if clean == "" {
			continue
		}
		key := folder.String(clean)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, clean)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ContainsTag reports whether tags holds tag, comparing by TagKey.
func ContainsTag(tags []string, tag string) bool {
	key := TagKey(tag)
	if key == "" {
		return false
	}
	for _, t := range tags {
		if TagKey(t) == key {
			return true
		}
	}
	return false
}
