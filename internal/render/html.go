package render

import (
	"fmt"
	"strings"

	"github.com/Zuo-Peng/prompt-history/internal/sanitize"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

// ResultPreviewLen is the number of characters of a tool result shown
// before it is cut with an ellipsis.
const ResultPreviewLen = 200

// HTML renders a segmented transcript: the files-accessed banner followed
// by one block per turn.
func HTML(doc transcript.Document) string {
	var b strings.Builder
	b.WriteString(FileBanner(&doc.Files))
	for _, turn := range doc.Turns {
		b.WriteString(Turn(turn.Role, turn.Sections()))
	}
	return b.String()
}

// Turn renders one role block and its sections.
func Turn(role transcript.Role, sections []transcript.Section) string {
	label := "Assistant"
	if role == transcript.RoleUser {
		label = "User"
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<div class="message message-%s">`, sanitize.Escape(string(role)))
	fmt.Fprintf(&b, `<div class="message-role">%s</div>`, label)
	b.WriteString(`<div class="message-content">`)
	for _, s := range sections {
		b.WriteString(Section(s))
	}
	b.WriteString(`</div></div>`)
	return b.String()
}

// Section renders a single section. Text sections with no content render
// as the empty string.
func Section(s transcript.Section) string {
	switch s.Kind {
	case transcript.KindThinking:
		return `<div class="thinking-block"><div class="thinking-label">Thinking</div>` +
			`<div class="thinking-content">` + sanitize.Escape(strings.TrimSpace(s.Content())) + `</div></div>`

	case transcript.KindToolCall:
		name := s.Tool
		if name == "" {
			name = "tool"
		}
		var b strings.Builder
		b.WriteString(`<div class="tool-call"><div class="tool-call-header">Tool call: `)
		fmt.Fprintf(&b, `<span class="tool-name">%s</span></div>`, sanitize.Escape(name))
		if params := strings.TrimSpace(s.Content()); params != "" {
			fmt.Fprintf(&b, `<pre class="tool-params">%s</pre>`, sanitize.Escape(params))
		}
		b.WriteString(`</div>`)
		return b.String()

	case transcript.KindToolResult:
		content := strings.TrimSpace(s.Content())
		body := `<div class="tool-result-empty">(no output)</div>`
		if content != "" {
			preview, _ := sanitize.Truncate(content, ResultPreviewLen)
			body = `<pre class="tool-result-content">` + sanitize.Escape(preview) + `</pre>`
		}
		return `<div class="tool-result"><div class="tool-result-label">Result</div>` + body + `</div>`

	default:
		p := sanitize.Paragraphs(s.Content())
		if p == "" {
			return ""
		}
		return `<div class="text-content">` + p + `</div>`
	}
}

// FileBanner lists every distinct file path with its category badge.
// Returns "" when no files were mentioned.
func FileBanner(files *transcript.Files) string {
	if files == nil || files.Len() == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(`<div class="files-accessed">`)
	fmt.Fprintf(&b, `<div class="files-accessed-title">Files accessed (%d)</div><ul>`, files.Len())
	for _, ref := range files.Refs() {
		c := transcript.Categorize(ref)
		fmt.Fprintf(&b, `<li><span class="file-badge file-%s">%s</span> <code>%s</code></li>`,
			c, c, sanitize.Escape(ref.Path))
	}
	b.WriteString(`</ul></div>`)
	return b.String()
}
