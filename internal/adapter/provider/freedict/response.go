package freedict

import "github.com/heartmarshall/lexicon/internal/domain"

// apiEntry represents a single entry from the FreeDictionary API response.
// The API returns an array of entries (one per etymology).
type apiEntry struct {
	Word      string        `json:"word"`
	Phonetic  string        `json:"phonetic"`
	Phonetics []apiPhonetic `json:"phonetics"`
	Meanings  []apiMeaning  `json:"meanings"`
}

// apiPhonetic represents phonetic/pronunciation data from the API.
type apiPhonetic struct {
	Text  string `json:"text"`
	Audio string `json:"audio"`
}

// apiMeaning represents a group of definitions sharing a part of speech.
type apiMeaning struct {
	PartOfSpeech string          `json:"partOfSpeech"`
	Definitions  []apiDefinition `json:"definitions"`
	Synonyms     []string        `json:"synonyms"`
	Antonyms     []string        `json:"antonyms"`
}

// apiDefinition represents a single definition with an optional example.
type apiDefinition struct {
	Definition string   `json:"definition"`
	Example    string   `json:"example"`
	Synonyms   []string `json:"synonyms"`
	Antonyms   []string `json:"antonyms"`
}

// phonetic returns the entry's transcription without slash delimiters: the
// direct field when set, otherwise the first phonetics record with text.
func (e apiEntry) phonetic() string {
	if e.Phonetic != "" {
		return domain.StripSlashes(e.Phonetic)
	}
	for _, ph := range e.Phonetics {
		if ph.Text != "" {
			return domain.StripSlashes(ph.Text)
		}
	}
	return ""
}

// audioURL returns the first non-empty audio link, or nil.
func (e apiEntry) audioURL() *string {
	for _, ph := range e.Phonetics {
		if ph.Audio != "" {
			a := ph.Audio
			return &a
		}
	}
	return nil
}
