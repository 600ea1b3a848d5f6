package library

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// RemoveDiacritics removes diacritical marks from a string (e.g., "Léto" -> "Leto").
func RemoveDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	result, _, _ := transform.String(t, s)
	return result
}

// NormalizeAlbumTitle normalizes an album title for comparison
// (lowercase, no diacritics, dashes and underscores as spaces, collapsed whitespace).
func NormalizeAlbumTitle(title string) string {
	title = RemoveDiacritics(title)
	title = strings.ToLower(title)
	title = strings.NewReplacer("-", " ", "_", " ").Replace(title)
	return strings.Join(strings.Fields(title), " ")
}
