package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Zuo-Peng/prompt-history/internal/search"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorDim     = "\033[2m"
)

func colorizeSnippet(snippet string) string {
	snippet = strings.ReplaceAll(snippet, ">>>", sColorBoldRed)
	snippet = strings.ReplaceAll(snippet, "<<<", sColorReset)
	return snippet
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// writeTSV prints one result per line. The first two fields (id, line)
// stay plain so fzf can pass them back as {1} {2}.
func writeTSV(w io.Writer, results []search.Result) {
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%s#%d %s%s\t%s\t%s\n",
			r.ID,
			r.Line,
			sColorDim, r.Index, r.SizeLabel, sColorReset,
			flatten(r.Summary),
			colorizeSnippet(flatten(r.Snippet)),
		)
	}
}
