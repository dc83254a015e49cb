package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/x/ansi"

	"github.com/Zuo-Peng/prompt-history/internal/render"
	"github.com/Zuo-Peng/prompt-history/internal/search"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

func TestFormatResultLine(t *testing.T) {
	r := search.Result{
		ID:        "agent-3",
		Index:     2,
		SizeLabel: "12 kB",
		Summary:   "Agent 3: derive the KL bound\nfor the filter",
		Snippet:   "the >>>bound<<< holds",
		Line:      41,
	}
	rows := formatResultLine(r, 80, true)
	if len(rows) != linesPerItem {
		t.Fatalf("got %d rows", len(rows))
	}

	line1 := ansi.Strip(rows[0])
	if !strings.HasPrefix(line1, "> ") || !strings.Contains(line1, "agent-3") || strings.Contains(line1, "\n") {
		t.Errorf("line1 = %q", line1)
	}
	line2 := ansi.Strip(rows[1])
	if !strings.Contains(line2, "L41  the bound holds") {
		t.Errorf("line2 = %q", line2)
	}
}

func TestAdjustListScroll(t *testing.T) {
	m := model{cursor: 9}
	m.adjustListScroll(8) // 4 visible items
	if m.listOffset != 6 {
		t.Errorf("listOffset = %d, want 6", m.listOffset)
	}
	m.cursor = 2
	m.adjustListScroll(8)
	if m.listOffset != 2 {
		t.Errorf("listOffset = %d, want 2", m.listOffset)
	}
}

func TestPreviewCacheKey(t *testing.T) {
	if got := previewCacheKey("a/b", 7); got != "a/b:7" {
		t.Errorf("got %q", got)
	}
}

func TestFormatResultLineCard(t *testing.T) {
	r := search.Result{
		ID:           "sa4/kl",
		SizeLabel:    "3 kB",
		Summary:      "Agent 4: bound the divergence",
		MessageCount: 6,
		ToolCalls:    3,
		FilesChanged: 2,
		Agent:        "4",
	}
	rows := formatResultLine(r, 80, false)
	line1 := ansi.Strip(rows[0])
	if !strings.Contains(line1, "a4 bound the divergence") || strings.Contains(line1, "Agent 4:") {
		t.Errorf("line1 = %q", line1)
	}
	if line2 := ansi.Strip(rows[1]); !strings.Contains(line2, "6 msgs  3 tools  2 files") {
		t.Errorf("line2 = %q", line2)
	}
}

func previewModel(turns []int) model {
	m := model{preview: viewport.New(80, 10)}
	m.preview.SetContent(strings.Repeat("line\n", 99) + "end")
	m.view = render.TerminalView{Turns: turns, HitLine: -1}
	return m
}

func TestJumpTurn(t *testing.T) {
	m := previewModel([]int{3, 20, 50})

	for _, want := range []int{3, 20, 50, 50} {
		m.jumpTurn(1)
		if m.preview.YOffset != want {
			t.Fatalf("next turn: offset %d, want %d", m.preview.YOffset, want)
		}
	}
	if m.currentTurn() != 3 {
		t.Errorf("currentTurn = %d, want 3", m.currentTurn())
	}

	m.jumpTurn(-1)
	if m.preview.YOffset != 20 {
		t.Errorf("prev turn from a header: offset %d, want 20", m.preview.YOffset)
	}

	// inside a turn, going back lands on its own header first
	m.preview.SetYOffset(30)
	m.jumpTurn(-1)
	if m.preview.YOffset != 20 {
		t.Errorf("prev turn from inside: offset %d, want 20", m.preview.YOffset)
	}
	m.jumpTurn(-1)
	m.jumpTurn(-1)
	if m.preview.YOffset != 3 {
		t.Errorf("prev turn clamps at the first: offset %d", m.preview.YOffset)
	}

	empty := previewModel(nil)
	empty.preview.SetYOffset(7)
	empty.jumpTurn(1)
	if empty.preview.YOffset != 7 {
		t.Errorf("no turns should not scroll, offset %d", empty.preview.YOffset)
	}
}

func TestCycleAgent(t *testing.T) {
	m := model{agents: []string{"2", "10"}}
	for _, want := range []string{"2", "10", "", "2"} {
		if cmd := m.cycleAgent(); cmd == nil {
			t.Fatal("cycleAgent returned no refresh")
		}
		if m.opts.Agent != want {
			t.Fatalf("agent = %q, want %q", m.opts.Agent, want)
		}
	}

	none := model{}
	none.cycleAgent()
	if none.opts.Agent != "" {
		t.Errorf("agent = %q with no declared agents", none.opts.Agent)
	}
}

func TestApplyResultsDropsStale(t *testing.T) {
	m := model{query: "bound", opts: search.Options{Agent: "2"}, preview: viewport.New(10, 5)}
	old := []search.Result{{ID: "old"}}
	m.results = old

	for _, msg := range []searchResultMsg{
		{query: "boun", agent: "2", results: []search.Result{{ID: "x"}}},
		{query: "bound", agent: "", results: []search.Result{{ID: "x"}}},
	} {
		next, _ := m.applyResults(msg)
		if got := next.(model).results; len(got) != 1 || got[0].ID != "old" {
			t.Errorf("stale %+v applied: %+v", msg, got)
		}
	}

	next, cmd := m.applyResults(searchResultMsg{query: "bound", agent: "2", results: []search.Result{{ID: "new", Line: 4}}})
	nm := next.(model)
	if len(nm.results) != 1 || nm.results[0].ID != "new" || nm.cursor != 0 || cmd == nil {
		t.Errorf("fresh results not applied: %+v", nm.results)
	}
}

func TestApplyPreview(t *testing.T) {
	m := previewModel(nil)
	m.results = []search.Result{{ID: "a", Line: 60}}

	stale := m.applyPreview(previewRenderedMsg{id: "b", view: render.TerminalView{Content: "other", Turns: []int{0}}})
	if stale.previewKey != "" || len(stale.view.Turns) != 0 {
		t.Errorf("stale preview applied: %+v", stale.view)
	}

	view := render.TerminalView{Content: strings.Repeat("x\n", 80), HitLine: 40, Turns: []int{1, 30}}
	got := m.applyPreview(previewRenderedMsg{id: "a", line: 60, view: view})
	if got.previewKey != "a:60" || got.preview.YOffset != 40 || len(got.view.Turns) != 2 {
		t.Errorf("preview = key %q offset %d turns %v", got.previewKey, got.preview.YOffset, got.view.Turns)
	}
	if got.currentTurn() != 2 {
		t.Errorf("currentTurn = %d, want 2", got.currentTurn())
	}
}

func TestStatusBar(t *testing.T) {
	m := previewModel([]int{0, 40})
	m.results = []search.Result{{ID: "a"}, {ID: "b"}}
	m.opts.Agent = "7"

	bar := ansi.Strip(m.statusBar())
	for _, want := range []string{"2 transcripts", "agent 7", "turn 1/2", "C-n next turn", "C-g cycle agent", "enter copy export cmd"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar %q missing %q", bar, want)
		}
	}
}

func TestPreviewHeader(t *testing.T) {
	meta := transcript.Metadata{ID: "sa1/markov", MessageCount: 4, ToolCalls: 2, FilesChanged: 1, Agent: "1"}
	got := previewHeader(meta, 3, "2 kB")
	want := "#3 sa1/markov [2 kB]  4 msgs, 2 tool calls, 1 files  agent 1"
	if got != want {
		t.Errorf("header = %q, want %q", got, want)
	}
}

func TestExportCommand(t *testing.T) {
	if got := exportCommand("sa1/markov"); got != "phist export sa1/markov -o sa1_markov.html" {
		t.Errorf("got %q", got)
	}
}
