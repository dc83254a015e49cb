package sanitize

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Ellipsis is appended to text cut by Truncate.
const Ellipsis = "..."

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Escape makes raw text safe to embed in HTML element content or attributes.
func Escape(s string) string {
	return html.EscapeString(s)
}

// Paragraphs escapes text and converts it to paragraph markup: runs of two
// or more newlines start a new <p>, single newlines become <br>.
// Returns "" when the text is blank.
func Paragraphs(s string) string {
	s = strings.TrimSpace(NormalizeNewlines(s))
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, para := range paragraphBreak.Split(s, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(Escape(para), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(s string) string {
	if !strings.Contains(s, "\r") {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// Truncate returns the first max runes of s, with Ellipsis appended if
// anything was cut. The second return value reports truncation.
func Truncate(s string, max int) (string, bool) {
	if max < 0 || utf8.RuneCountInString(s) <= max {
		return s, false
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + Ellipsis, true
		}
		n++
	}
	return s, false
}
