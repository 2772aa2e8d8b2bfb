package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy strips all markup, used for titles and previews
	StrictPolicy *bluemonday.Policy
	// NotePolicy allows the rich-text subset the note editor produces
	NotePolicy *bluemonday.Policy
)

func init() {
	StrictPolicy = bluemonday.StrictPolicy()

	NotePolicy = bluemonday.UGCPolicy()

	// The editor only emits basic formatting, lists, quotes and links
	NotePolicy.AllowElements("p", "br", "div", "span", "h1", "h2", "h3")
	NotePolicy.AllowElements("strong", "em", "u", "s", "code", "pre")
	NotePolicy.AllowElements("ul", "ol", "li")
	NotePolicy.AllowElements("blockquote")
	NotePolicy.AllowElements("a")

	NotePolicy.AllowAttrs("href").OnElements("a")
	NotePolicy.RequireParseableURLs(true)
	NotePolicy.AllowURLSchemes("http", "https", "mailto")
}

// SanitizeNoteContent sanitizes note content before rendering.
func SanitizeNoteContent(content string) string {
	return NotePolicy.Sanitize(content)
}

// StripHTML removes all markup from content.
func StripHTML(content string) string {
	return StrictPolicy.Sanitize(content)
}

// NotePreview returns a plain-text excerpt of the note content.
func NotePreview(content string, max int) string {
	text := strings.TrimSpace(StripHTML(content))
	if max <= 0 || len(text) <= max {
		return text
	}
	cut := strings.LastIndex(text[:max], " ")
	if cut <= 0 {
		// No word boundary to cut on; back up to a rune boundary so a
		// multi-byte character is never split.
		cut = max
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
	}
	return text[:cut] + "…"
}
