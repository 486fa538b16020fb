// Package textmetrics derives word counts and plain-text projections from
// entry content.
package textmetrics

import (
	"strings"

	"golang.org/x/net/html"
)

// WordCount counts whitespace-separated tokens. Runs of whitespace count as a
// single delimiter; leading and trailing whitespace is ignored.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// blockTags end a line of text in the plain projection.
var blockTags = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"blockquote": true, "pre": true, "tr": true,
}

// HTMLToPlainText strips markup and returns the text content. Block-level
// tags become line breaks and script/style bodies are dropped.
func HTMLToPlainText(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}

	z := html.NewTokenizer(strings.NewReader(src))
	var b strings.Builder
	skip := 0
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return collapse(b.String())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if tag == "script" || tag == "style" {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if (tag == "script" || tag == "style") && skip > 0 {
				skip--
				continue
			}
			if blockTags[tag] {
				b.WriteByte('\n')
			}
		case html.TextToken:
			if skip > 0 {
				continue
			}
			b.Write(z.Text())
		}
	}
}

// collapse trims every line, squeezes inner spaces and drops blank lines.
func collapse(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.Join(strings.Fields(l), " ")
		if l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// PlainContent prefers an explicit plain-text field and falls back to the
// plain projection of the raw content.
func PlainContent(plain, raw string) string {
	if strings.TrimSpace(plain) != "" {
		return plain
	}
	return HTMLToPlainText(raw)
}

// Preview truncates text to at most max runes, adding "..." when cut.
func Preview(text string, max int) string {
	text = strings.Join(strings.Fields(text), " ")
	r := []rune(text)
	if max <= 0 || len(r) <= max {
		return text
	}
	if max <= 3 {
		return string(r[:max])
	}
	return strings.TrimSpace(string(r[:max-3])) + "..."
}
