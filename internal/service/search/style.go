package search

import "github.com/heartmarshall/lexicon/internal/domain"

// Style is the display hint the constellation view uses for a source.
type Style struct {
	Scale   float64 `json:"scale"`
	Opacity float64 `json:"opacity"`
	Glow    bool    `json:"glow"`
	Color   string  `json:"color"`
	Symbol  string  `json:"symbol"`
	Label   string  `json:"label"`
}

var sourceStyles = map[string]Style{
	domain.SourcePersonal:       {Scale: 1.0, Opacity: 1.0, Glow: true, Color: "#3B82F6", Symbol: "★", Label: "Mine"},
	domain.SourceCommunity:      {Scale: 0.9, Opacity: 0.9, Glow: true, Color: "#8B5CF6", Symbol: "✦", Label: "Community"},
	domain.SourceFreeDictionary: {Scale: 0.85, Opacity: 0.8, Color: "#10B981", Symbol: "◆", Label: "Dictionary"},
	domain.SourceWiktionary:     {Scale: 0.85, Opacity: 0.8, Color: "#F59E0B", Symbol: "◇", Label: "Wiktionary"},
}

// DefaultStyle is used for sources without a dedicated style.
func DefaultStyle(id string) Style {
	return Style{Scale: 0.8, Opacity: 0.7, Color: "#9CA3AF", Symbol: "•", Label: id}
}

// Style returns the display hint for a source id.
func (r *Registry) Style(id string) Style {
	if s, ok := sourceStyles[id]; ok {
		return s
	}
	return DefaultStyle(id)
}
