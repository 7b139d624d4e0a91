package wiktionary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/heartmarshall/lexicon/internal/domain"
)

// apiPage is the body of GET /page/definition/{word}: an object whose keys
// identify language sections. Sections keep document order.
type apiPage struct {
	Sections []apiSection
}

// apiSection is one language section of a page.
type apiSection struct {
	Key    string
	Usages []apiUsage
}

// apiUsage groups definitions sharing a part of speech.
type apiUsage struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Language     string          `json:"language"`
	Definitions  []apiDefinition `json:"definitions"`
}

// apiDefinition holds raw HTML in both fields.
type apiDefinition struct {
	Definition string   `json:"definition"`
	Examples   []string `json:"examples"`
}

// UnmarshalJSON walks the top-level object token by token so that section
// order matches the document. Values that are not usage arrays are skipped.
func (p *apiPage) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("wiktionary: expected object, got %v", tok)
	}

	p.Sections = p.Sections[:0]
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var usages []apiUsage
		if err := json.Unmarshal(raw, &usages); err != nil {
			continue
		}
		p.Sections = append(p.Sections, apiSection{Key: key, Usages: usages})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// find returns the section for an ISO code. A section matches when its key
// is the language name or the code itself, or when a usage names the language.
func (p apiPage) find(code string) (apiSection, bool) {
	name, _ := domain.LanguageName(code)
	for _, s := range p.Sections {
		if s.matches(code, name) {
			return s, true
		}
	}
	return apiSection{}, false
}

func (s apiSection) matches(code, name string) bool {
	if strings.EqualFold(s.Key, code) {
		return true
	}
	if name == "" {
		return false
	}
	if strings.EqualFold(s.Key, name) {
		return true
	}
	for _, u := range s.Usages {
		if strings.EqualFold(u.Language, name) {
			return true
		}
	}
	return false
}

// code maps the section back to an ISO code, or returns fallback.
func (s apiSection) code(fallback string) string {
	if code, ok := domain.LanguageCode(s.Key); ok {
		return code
	}
	if domain.IsLanguageCode(s.Key) {
		return strings.ToLower(s.Key)
	}
	for _, u := range s.Usages {
		if code, ok := domain.LanguageCode(u.Language); ok {
			return code
		}
	}
	return fallback
}
