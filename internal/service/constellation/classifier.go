package constellation

import (
	"strings"
	"unicode"
)

// Domain is one of the nine top-level SIL semantic domains.
type Domain string

const (
	DomainUniverse Domain = "universe"
	DomainPerson   Domain = "person"
	DomainLanguage Domain = "language"
	DomainSocial   Domain = "social"
	DomainDaily    Domain = "daily"
	DomainWork     Domain = "work"
	DomainPhysical Domain = "physical"
	DomainStates   Domain = "states"
	DomainGrammar  Domain = "grammar"
)

// Domains lists every domain in SIL numbering order.
var Domains = []Domain{
	DomainUniverse, DomainPerson, DomainLanguage, DomainSocial, DomainDaily,
	DomainWork, DomainPhysical, DomainStates, DomainGrammar,
}

// Classification is a classifier verdict.
type Classification struct {
	Domain     Domain  `json:"domain"`
	Confidence float64 `json:"confidence"`
}

// Classifier buckets a gloss into a semantic domain.
type Classifier interface {
	Classify(text string) Classification
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(text string) Classification

// Classify calls f.
func (f ClassifierFunc) Classify(text string) Classification { return f(text) }

// fallbackConfidence is reported when no keyword matched.
const fallbackConfidence = 0.1

var domainKeywords = map[Domain][]string{
	DomainUniverse: {
		"animal", "plant", "tree", "flower", "bird", "fish", "insect", "sky", "sun", "moon",
		"star", "water", "river", "sea", "mountain", "weather", "rain", "earth", "stone", "mammal",
	},
	DomainPerson: {
		"body", "head", "hand", "eye", "heart", "person", "man", "woman", "child", "health",
		"sick", "blood", "skin", "bone", "face",
	},
	DomainLanguage: {
		"think", "know", "idea", "mind", "word", "speak", "say", "language", "learn", "believe",
		"remember", "understand", "write", "read", "question",
	},
	DomainSocial: {
		"friend", "family", "love", "law", "government", "religion", "war", "enemy", "marry",
		"custom", "society", "politics", "crime", "church", "king",
	},
	DomainDaily: {
		"food", "eat", "drink", "house", "home", "clothes", "cook", "sleep", "bread", "kitchen",
		"furniture", "meal", "bed", "wear", "room",
	},
	DomainWork: {
		"work", "job", "tool", "machine", "farm", "trade", "money", "buy", "sell", "business",
		"build", "craft", "office", "pay", "factory",
	},
	DomainPhysical: {
		"move", "run", "walk", "jump", "throw", "carry", "hit", "cut", "push", "pull",
		"fall", "go", "come", "swim", "fly",
	},
	DomainStates: {
		"big", "small", "color", "colour", "good", "bad", "hot", "cold", "new", "old",
		"fast", "slow", "state", "quality", "condition",
	},
	DomainGrammar: {
		"pronoun", "article", "preposition", "conjunction", "particle", "affix", "suffix",
		"prefix", "interjection", "determiner", "auxiliary",
	},
}

// KeywordClassifier scores text by counting keyword hits per domain. Ties go
// to the domain that comes first in Domains. Confidence grows with the share
// of the winning domain's hits and never exceeds 0.9.
type KeywordClassifier struct{}

// Classify implements Classifier.
func (KeywordClassifier) Classify(text string) Classification {
	tokens := tokenize(text)
	if len(tokens) == 0 {
		return Classification{Domain: DomainStates, Confidence: fallbackConfidence}
	}

	best, bestHits, total := DomainStates, 0, 0
	for _, d := range Domains {
		hits := 0
		for _, kw := range domainKeywords[d] {
			if _, ok := tokens[kw]; ok {
				hits++
			}
		}
		total += hits
		if hits > bestHits {
			best, bestHits = d, hits
		}
	}

	if bestHits == 0 {
		return Classification{Domain: DomainStates, Confidence: fallbackConfidence}
	}

	confidence := 0.3 + 0.6*float64(bestHits)/float64(total)
	if bestHits > 1 {
		confidence += 0.1
	}
	return Classification{Domain: best, Confidence: min(confidence, 0.9)}
}

func tokenize(text string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
		// Plural and third-person forms.
		if trimmed, ok := strings.CutSuffix(f, "s"); ok && len(trimmed) > 2 {
			set[trimmed] = struct{}{}
		}
	}
	return set
}
