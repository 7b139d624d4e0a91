package domain

import "strings"

// NormalizeWord prepares a word for comparison: surrounding whitespace is
// trimmed, inner runs of whitespace become one space, letters are lowercased.
// Diacritics, hyphens and apostrophes are kept.
func NormalizeWord(word string) string {
	fields := strings.Fields(word)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.Join(fields, " "))
}

// StripSlashes removes the slash delimiters around an IPA transcription
// ("/kæt/" becomes "kæt").
func StripSlashes(s string) string {
	return strings.Trim(strings.TrimSpace(s), "/")
}
