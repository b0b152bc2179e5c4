package utils

import "strings"

// NormalizeName canonicalizes a catalog entity name for comparison: trimmed,
// lower-cased, internal whitespace collapsed.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// TitleName renders a normalized name for display, capitalizing each word.
func TitleName(name string) string {
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
