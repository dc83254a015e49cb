package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/render"
	"github.com/Zuo-Peng/prompt-history/internal/search"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	id   string
	line int
	view render.TerminalView
	err  error
}

// loadPreviewCmd reads, segments and renders one transcript off the UI
// goroutine. Each call works on its own document.
func loadPreviewCmd(db *index.DB, r search.Result, query string, width int) tea.Cmd {
	return func() tea.Msg {
		msg := previewRenderedMsg{id: r.ID, line: r.Line}
		row, text, err := db.LoadText(r.ID)
		if err != nil {
			msg.err = err
			return msg
		}
		msg.view = render.Terminal(transcript.Segment(text), render.TerminalOptions{
			Header:  previewHeader(row.Metadata(), row.Index, row.SizeLabel),
			HitLine: r.Line,
			Width:   width,
			Query:   query,
		})
		return msg
	}
}

// previewHeader names the transcript and its card statistics.
func previewHeader(m transcript.Metadata, idx int, size string) string {
	h := fmt.Sprintf("#%d %s [%s]  %d msgs, %d tool calls, %d files",
		idx, m.ID, size, m.MessageCount, m.ToolCalls, m.FilesChanged)
	if m.Agent != "" {
		h += "  agent " + m.Agent
	}
	return h
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
