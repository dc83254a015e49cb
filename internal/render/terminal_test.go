package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

func TestWrapLine(t *testing.T) {
	got := wrapLine("abcdef", 4)
	if len(got) != 2 || got[0] != "abcd" || got[1] != "ef" {
		t.Errorf("wrapLine = %q", got)
	}

	// escape sequences take no columns
	got = wrapLine(colorDim+"abcd"+colorReset, 4)
	if len(got) != 1 {
		t.Errorf("wrapLine with ANSI = %q", got)
	}

	// wide runes take two columns
	got = wrapLine("日本語", 4)
	if len(got) != 2 {
		t.Errorf("wrapLine wide = %q", got)
	}
}

func TestHighlightKeywords(t *testing.T) {
	got := highlightKeywords("Parse the PARSER", "parse AND")
	if strings.Count(got, colorBoldRed) != 2 {
		t.Errorf("highlightKeywords = %q", got)
	}
	if highlightKeywords("x", "") != "x" {
		t.Error("empty query changed text")
	}
}

func TestTerminal(t *testing.T) {
	in := "user:\nfix it\nassistant:\n[Tool call] Edit\n  path: a.go\n[Tool result]\nok\nassistant:\nall done"
	view := Terminal(transcript.Segment(in), TerminalOptions{Header: "s1", HitLine: 6})
	out, hit := view.Content, view.HitLine

	for _, want := range []string{"USER >", "ASST >", "TOOL > Edit", "RESULT", "[modified] a.go", "all done"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
	if hit < 0 {
		t.Fatal("hit line not found")
	}
	lines := strings.Split(out, "\n")
	if !strings.Contains(lines[hit], ">> match <<") {
		t.Errorf("line %d = %q", hit, lines[hit])
	}
	if !strings.Contains(lines[hit+1], "RESULT") {
		t.Errorf("hit should mark the result section, got %q", lines[hit+1])
	}

	if len(view.Turns) != 3 {
		t.Fatalf("turn anchors = %v", view.Turns)
	}
	for i, y := range view.Turns {
		want := "USER >"
		if i > 0 {
			want = "ASST >"
		}
		if !strings.Contains(lines[y], want) || !strings.Contains(lines[y], fmt.Sprintf("turn %d,", i+1)) {
			t.Errorf("turn %d anchor line %d = %q", i, y, lines[y])
		}
	}
	if got := view.TurnAt(hit); got != 1 {
		t.Errorf("TurnAt(hit) = %d, want 1", got)
	}
	if got := view.TurnAt(0); got != -1 {
		t.Errorf("TurnAt(header) = %d, want -1", got)
	}
}

func TestTerminalEmpty(t *testing.T) {
	view := Terminal(transcript.Segment(""), TerminalOptions{})
	if view.Content != "(empty transcript)" || view.HitLine != -1 || len(view.Turns) != 0 {
		t.Errorf("got %+v", view)
	}
}
