package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Zuo-Peng/prompt-history/internal/search"
)

func TestWriteTSV(t *testing.T) {
	var buf bytes.Buffer
	writeTSV(&buf, []search.Result{{
		ID:        "sa1/markov",
		Line:      12,
		Index:     3,
		SizeLabel: "4.1 kB",
		Summary:   "Agent 1:\tsimulate\nthe chain",
		Snippet:   "the >>>chain<<< mixes",
	}})

	out := strings.TrimSuffix(buf.String(), "\n")
	fields := strings.Split(out, "\t")
	if len(fields) != 5 {
		t.Fatalf("fields = %q", fields)
	}
	if fields[0] != "sa1/markov" || fields[1] != "12" {
		t.Errorf("leading fields = %q, %q", fields[0], fields[1])
	}
	if fields[3] != "Agent 1: simulate the chain" {
		t.Errorf("summary = %q", fields[3])
	}
	if !strings.Contains(fields[4], sColorBoldRed+"chain"+sColorReset) {
		t.Errorf("snippet = %q", fields[4])
	}
}
