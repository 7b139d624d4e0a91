package domain

import "slices"

// Well-known source identifiers.
const (
	SourcePersonal       = "personal"
	SourceCommunity      = "community"
	SourceFreeDictionary = "freeDictionary"
	SourceWiktionary     = "wiktionary"
)

// LanguageSet lists the ISO codes a source accepts.
// A nil or empty set means the source accepts every language.
type LanguageSet []string

// AllLanguages is the "all" sentinel.
var AllLanguages LanguageSet

// IsAll reports whether the set is the "all" sentinel.
func (s LanguageSet) IsAll() bool { return len(s) == 0 }

// Accepts reports whether a query in lang may be sent to the source.
// An empty lang (no filter) is accepted by every source.
func (s LanguageSet) Accepts(lang string) bool {
	if lang == "" || s.IsAll() {
		return true
	}
	return slices.Contains(s, lang)
}

// SourceDescriptor identifies one lookup provider.
type SourceDescriptor struct {
	ID                 string      `json:"id"`
	DisplayName        string      `json:"display_name"`
	ShortName          string      `json:"short_name"`
	ColorHint          string      `json:"color_hint"`
	IsBuiltIn          bool        `json:"is_built_in"`
	EnabledByDefault   bool        `json:"enabled_by_default"`
	SupportedLanguages LanguageSet `json:"supported_languages"`
}
