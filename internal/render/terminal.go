package render

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/prompt-history/internal/sanitize"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

const (
	colorReset   = "\033[0m"
	colorUser    = "\033[1;34m" // bold blue
	colorAssist  = "\033[1;32m" // bold green
	colorThink   = "\033[2;35m" // dim magenta for thinking
	colorTool    = "\033[1;33m" // bold yellow
	colorDim     = "\033[2m"
	colorHit     = "\033[43m"   // yellow background
	colorBoldRed = "\033[1;31m" // bold red for keyword highlights
)

type TerminalOptions struct {
	Header  string // first line, e.g. transcript id and size
	HitLine int    // source line to mark; 0 = none
	Width   int    // wrap width (0 = no wrap)
	Query   string // search query for keyword highlighting
}

// fts5Operators are FTS5 operators that should not be highlighted as keywords.
var fts5Operators = map[string]bool{
	"AND": true, "OR": true, "NOT": true, "NEAR": true,
	"and": true, "or": true, "not": true, "near": true,
}

// highlightKeywords wraps case-insensitive matches of query terms in bold red ANSI codes.
func highlightKeywords(text, query string) string {
	if query == "" {
		return text
	}
	var filtered []string
	for _, t := range strings.Fields(query) {
		if !fts5Operators[t] {
			filtered = append(filtered, strings.Trim(t, `"*`))
		}
	}
	for _, term := range filtered {
		if term == "" {
			continue
		}
		lower := strings.ToLower(term)
		i := 0
		for i < len(text) {
			idx := strings.Index(strings.ToLower(text[i:]), lower)
			if idx < 0 {
				break
			}
			pos := i + idx
			orig := text[pos : pos+len(term)]
			replacement := colorBoldRed + orig + colorReset
			text = text[:pos] + replacement + text[pos+len(term):]
			i = pos + len(replacement)
		}
	}
	return text
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// TerminalView is a rendered transcript. Line numbers are 0-based output
// lines.
type TerminalView struct {
	Content string
	HitLine int   // section containing TerminalOptions.HitLine, -1 if none
	Turns   []int // header line of each turn, in order
}

// TurnAt returns the index of the turn shown at output line y, or -1 above
// the first turn.
func (v TerminalView) TurnAt(y int) int {
	i := -1
	for j, start := range v.Turns {
		if start > y {
			break
		}
		i = j
	}
	return i
}

// Terminal renders a transcript for an ANSI terminal.
func Terminal(doc transcript.Document, opts TerminalOptions) TerminalView {
	if len(doc.Turns) == 0 {
		return TerminalView{Content: "(empty transcript)", HitLine: -1}
	}

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	turnLines := make([]int, 0, len(doc.Turns))
	separator := colorDim + strings.Repeat("-", 50) + colorReset

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}
	writeBody := func(text, color string) {
		text = highlightKeywords(text, opts.Query)
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			if color != "" {
				tl = color + tl + colorReset
			}
			writeLine(tl)
		}
	}

	if opts.Header != "" {
		writeLine(fmt.Sprintf("%s--- %s ---%s", colorDim, opts.Header, colorReset))
	}
	if doc.Files.Len() > 0 {
		writeLine(fmt.Sprintf("%sFiles accessed (%d)%s", colorDim, doc.Files.Len(), colorReset))
		for _, ref := range doc.Files.Refs() {
			writeLine(fmt.Sprintf("  [%s] %s", transcript.Categorize(ref), ref.Path))
		}
	}

	for i, turn := range doc.Turns {
		if i > 0 || opts.Header != "" {
			writeLine(separator)
		}

		roleColor, roleLabel := colorAssist, "ASST"
		if turn.Role == transcript.RoleUser {
			roleColor, roleLabel = colorUser, "USER"
		}
		turnLines = append(turnLines, lineCount)
		writeLine(fmt.Sprintf("%s%s >%s %sturn %d, line %d%s", roleColor, roleLabel, colorReset, colorDim, i+1, firstLine(turn), colorReset))

		sections := turn.Sections()
		for j, s := range sections {
			isHit := opts.HitLine > 0 && containsLine(sections, j, turn, opts.HitLine)
			if isHit && hitLine < 0 {
				hitLine = lineCount
				writeLine(colorHit + ">> match <<" + colorReset)
			}

			switch s.Kind {
			case transcript.KindThinking:
				writeLine(colorThink + "THINK" + colorReset)
				writeBody(strings.TrimSpace(s.Content()), colorDim)
			case transcript.KindToolCall:
				name := s.Tool
				if name == "" {
					name = "tool"
				}
				writeLine(colorTool + "TOOL > " + name + colorReset)
				if params := strings.TrimSpace(s.Content()); params != "" {
					writeBody(params, colorDim)
				}
			case transcript.KindToolResult:
				writeLine(colorTool + "RESULT" + colorReset)
				content := strings.TrimSpace(s.Content())
				if content == "" {
					writeLine(colorDim + "  (no output)" + colorReset)
					continue
				}
				preview, _ := sanitize.Truncate(content, ResultPreviewLen)
				writeBody(preview, "")
			default:
				if text := strings.TrimSpace(s.Content()); text != "" {
					writeBody(text, "")
				}
			}
		}
		writeLine("")
	}

	return TerminalView{Content: b.String(), HitLine: hitLine, Turns: turnLines}
}

func firstLine(t transcript.Turn) int {
	if len(t.Lines) == 0 {
		return 0
	}
	return t.Lines[0].No
}

// containsLine reports whether source line n falls inside section j, which
// runs until the next section starts or the turn ends.
func containsLine(sections []transcript.Section, j int, turn transcript.Turn, n int) bool {
	start := sections[j].StartLine
	end := turn.Lines[len(turn.Lines)-1].No
	if j+1 < len(sections) {
		end = sections[j+1].StartLine - 1
	}
	return n >= start && n <= end
}
