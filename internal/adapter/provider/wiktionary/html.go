package wiktionary

import (
	"strings"

	"golang.org/x/net/html"
)

// breakingTags separate words in rendered text, so they become a space.
var breakingTags = map[string]bool{
	"br": true, "p": true, "div": true, "li": true,
	"ul": true, "ol": true, "dd": true, "dt": true, "dl": true,
}

// stripHTML returns the text content of an HTML fragment with entities
// unescaped and whitespace collapsed. Script and style bodies are dropped.
func stripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return collapse(s)
	}

	z := html.NewTokenizer(strings.NewReader(s))
	var b strings.Builder
	skip := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return collapse(b.String())
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
			}
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				switch tt {
				case html.StartTagToken:
					skip++
				case html.EndTagToken:
					if skip > 0 {
						skip--
					}
				}
				continue
			}
			if breakingTags[tag] {
				b.WriteByte(' ')
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
