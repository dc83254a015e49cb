package transcript

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractMetadataCounts(t *testing.T) {
	m := ExtractMetadata("s1", "user:\nuser:\nassistant:\n")
	if m.MessageCount != 3 {
		t.Errorf("MessageCount = %d, want 3", m.MessageCount)
	}
	if m.ID != "s1" {
		t.Errorf("ID = %q", m.ID)
	}

	m = ExtractMetadata("s2", example1+"\n[Tool call] Read\n  path: foo.txt\n  path: bar.txt")
	if m.MessageCount != 2 || m.ToolCalls != 2 || m.FilesChanged != 2 {
		t.Errorf("counts = %+v", m)
	}
	if m.Summary != "Hello" {
		t.Errorf("Summary = %q", m.Summary)
	}
}

func TestExtractMetadataDefaults(t *testing.T) {
	for _, in := range []string{"", "assistant:\nno user here", "user:\n<image_files>\nshot.png\n</image_files>\n[Image]\nassistant:\nhi"} {
		m := ExtractMetadata("x", in)
		if m.Summary != DefaultSummary {
			t.Errorf("ExtractMetadata(%q).Summary = %q, want default", in, m.Summary)
		}
	}

	m := ExtractMetadata("x", "")
	if m.MessageCount != 0 || m.ToolCalls != 0 || m.FilesChanged != 0 {
		t.Errorf("empty input counts = %+v", m)
	}
}

func TestExtractMetadataSummary(t *testing.T) {
	in := "user:\n<user_query>\nRefactor the parser.\n\n\nKeep tests [Image] green.\n</user_query>\nassistant:\nok"
	m := ExtractMetadata("x", in)
	if m.Summary != "Refactor the parser. Keep tests  green." {
		t.Errorf("Summary = %q", m.Summary)
	}

	long := "user:\n" + strings.Repeat("é", 250)
	m = ExtractMetadata("x", long)
	if !strings.HasSuffix(m.Summary, "...") || utf8.RuneCountInString(m.Summary) != 203 {
		t.Errorf("long summary = %d runes", utf8.RuneCountInString(m.Summary))
	}
}

func TestExtractMetadataAgent(t *testing.T) {
	m := ExtractMetadata("x", "user:\nyou are AGENT 7. Build the filter.\nassistant:\nok")
	if m.Agent != "7" {
		t.Errorf("Agent = %q", m.Agent)
	}
	if !strings.HasPrefix(m.Summary, "Agent 7: ") {
		t.Errorf("Summary = %q", m.Summary)
	}

	m = ExtractMetadata("x", "You are agent 2")
	if m.Summary != "Agent 2: "+DefaultSummary {
		t.Errorf("Summary = %q", m.Summary)
	}
}

func TestExtractMetadataPure(t *testing.T) {
	a := ExtractMetadata("x", example1)
	b := ExtractMetadata("x", example1)
	if a != b {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}
