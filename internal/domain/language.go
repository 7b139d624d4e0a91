package domain

import "strings"

// languageNames maps ISO 639-1 codes to the English language names used as
// section keys by the multilingual dictionary.
var languageNames = map[string]string{
	"ar": "Arabic",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"eo": "Esperanto",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"la": "Latin",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sv": "Swedish",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

var languageCodes = func() map[string]string {
	m := make(map[string]string, len(languageNames))
	for code, name := range languageNames {
		m[strings.ToLower(name)] = code
	}
	return m
}()

// LanguageName returns the language name for an ISO code.
func LanguageName(code string) (string, bool) {
	name, ok := languageNames[strings.ToLower(strings.TrimSpace(code))]
	return name, ok
}

// LanguageCode returns the ISO code for a language name (case-insensitive).
func LanguageCode(name string) (string, bool) {
	code, ok := languageCodes[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// IsLanguageCode reports whether code is a known ISO code.
func IsLanguageCode(code string) bool {
	_, ok := languageNames[strings.ToLower(code)]
	return ok
}
