package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/prompt-history/internal/search"
)

// linesPerItem is the number of terminal lines each result occupies.
const linesPerItem = 2

// renderList renders the left panel: search results list with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.results) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(colorDim).
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No results")
		return empty
	}

	var lines []string
	for i, r := range m.results {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		rows := formatResultLine(r, width, i == m.cursor)
		lines = append(lines, rows...)
	}

	// Pad remaining lines
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}

	return strings.Join(lines, "\n")
}

// formatResultLine formats a single result as two lines:
//
//	line 1: [>] #idx  size  id  [aN]  summary
//	line 2:    L<line> snippet, or card stats for a plain listing (dimmed)
func formatResultLine(r search.Result, width int, selected bool) []string {
	idx := styleListIndex.Render(fmt.Sprintf("#%d", r.Index))
	size := styleListSize.Render(r.SizeLabel)
	id := styleTranscriptID.Render(r.ID)

	// the agent prefix is already shown as a badge
	summary := strings.ReplaceAll(r.Summary, "\n", " ")
	badge := ""
	if r.Agent != "" {
		badge = styleAgentBadge.Render("a"+r.Agent) + " "
		summary = strings.TrimPrefix(summary, "Agent "+r.Agent+": ")
	}

	// prefix, index, size, id and their separators
	summaryMax := width - 2 - 5 - 9 - runewidth.StringWidth(r.ID) - 1 - lipgloss.Width(badge)
	if summaryMax < 0 {
		summaryMax = 0
	}
	if runewidth.StringWidth(summary) > summaryMax {
		summary = runewidth.Truncate(summary, summaryMax, "")
	}

	line1 := fmt.Sprintf("%s %s %s %s%s", idx, size, id, badge, styleListNormal.Render(summary))
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	snippet := statsLabel(r)
	if r.Line > 0 {
		snippet = strings.ReplaceAll(r.Snippet, "\n", " ")
		snippet = strings.ReplaceAll(snippet, "\t", " ")
		snippet = strings.ReplaceAll(snippet, ">>>", "")
		snippet = strings.ReplaceAll(snippet, "<<<", "")
		snippet = fmt.Sprintf("L%d  %s", r.Line, snippet)
	}
	snippetMax := width - 4 // indent
	if snippetMax < 0 {
		snippetMax = 0
	}
	if runewidth.StringWidth(snippet) > snippetMax {
		snippet = runewidth.Truncate(snippet, snippetMax, "")
	}
	line2 := "    " + lipgloss.NewStyle().Foreground(colorDim).Render(snippet)

	return []string{line1, line2}
}

func statsLabel(r search.Result) string {
	return fmt.Sprintf("%d msgs  %d tools  %d files", r.MessageCount, r.ToolCalls, r.FilesChanged)
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := listHeight / linesPerItem
	if visibleItems < 1 {
		visibleItems = 1
	}
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
