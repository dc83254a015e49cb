package search

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/scan"
)

func seed(t *testing.T, transcripts map[string]string) *index.DB {
	t.Helper()
	dir := t.TempDir()
	db, err := index.OpenDB(filepath.Join(dir, "phist.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	root := filepath.Join(dir, "transcripts")
	os.MkdirAll(root, 0o755)
	for name, text := range transcripts {
		if err := os.WriteFile(filepath.Join(root, name+".txt"), []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	files, err := scan.Resolve(root, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := index.IndexAll(db, files); err != nil {
		t.Fatal(err)
	}
	return db
}

func TestSearchFTS(t *testing.T) {
	db := seed(t, map[string]string{
		"a": "You are agent 4\nuser:\nestimate the stationary distribution\nassistant:\n[Tool call] Write\n  path: markov.py\nstationary again",
		"b": "user:\nplot the KL bound\n",
	})

	results, err := Search(db, Options{Query: "stationary"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}
	r := results[0]
	if r.ID != "a" || r.Line == 0 || !strings.Contains(r.Snippet, ">>>stationary<<<") {
		t.Errorf("result = %+v", r)
	}
	if r.Agent != "4" || r.MessageCount != 2 || r.ToolCalls != 1 || r.FilesChanged != 1 {
		t.Errorf("card stats = %+v", r)
	}

	// punctuation must not break FTS syntax
	if _, err := Search(db, Options{Query: `path: "markov.py`}); err != nil {
		t.Errorf("punctuated query: %v", err)
	}

	results, err = Search(db, Options{Query: "bound", Agent: "4"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Errorf("agent filter let through %+v", results)
	}
}

func TestSearchCJK(t *testing.T) {
	db := seed(t, map[string]string{"zh": "user:\n请解释马尔可夫链的平稳分布"})
	results, err := Search(db, Options{Query: "平稳分布"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || !strings.Contains(results[0].Snippet, ">>>平稳分布<<<") {
		t.Errorf("results = %+v", results)
	}
	if results[0].MessageCount != 1 {
		t.Errorf("card stats = %+v", results[0])
	}
}

func TestListAll(t *testing.T) {
	db := seed(t, map[string]string{
		"a": "user:\nfirst\n[Tool call] Read\n  path: x",
		"b": "user:\nsecond",
	})
	results, err := ListAll(db, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].ID != "a" {
		t.Fatalf("results = %+v", results)
	}
	if results[0].Snippet != "1 messages, 1 tool calls, 1 files" {
		t.Errorf("snippet = %q", results[0].Snippet)
	}
	if results[0].ToolCalls != 1 || results[0].FilesChanged != 1 {
		t.Errorf("card stats = %+v", results[0])
	}

	results, _ = ListAll(db, Options{Limit: 1})
	if len(results) != 1 {
		t.Errorf("limit ignored: %d", len(results))
	}
}

func TestFTSQuery(t *testing.T) {
	tests := map[string]string{
		"plain":       `"plain"`,
		"a AND b":     `"a" AND "b"`,
		"pref*":       `"pref"*`,
		`path: "x`:    `"path:" "x"`,
		`"`:           ``,
		"[Tool call]": `"[Tool" "call]"`,
	}
	for in, want := range tests {
		if got := ftsQuery(in); got != want {
			t.Errorf("ftsQuery(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMakeSnippet(t *testing.T) {
	got := makeSnippet("the quick brown fox jumps", "brown", 4)
	if got != "...ick >>>brown<<< fox..." {
		t.Errorf("got %q", got)
	}
	if got := makeSnippet("short", "zzz", 10); got != "short" {
		t.Errorf("no match = %q", got)
	}
}
