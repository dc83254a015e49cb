package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/prompt-history/internal/search"
	"github.com/Zuo-Peng/prompt-history/internal/tui"
)

func searchCmd() *cobra.Command {
	var agent string
	var limit int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across transcripts",
		Long: `Search transcript lines using FTS5. Output is TSV for fzf integration:
  id, line, index/size, summary, snippet

Recommended shell function (add to .zshrc):
  phf() {
    phist search "$*" | fzf \
      --ansi \
      --delimiter='\t' --with-nth=3.. \
      --preview 'phist preview {1} --line {2} --query {q}' \
      --preview-window=right:60%:wrap \
      --bind 'enter:execute(phist open {1} --line {2})'
  }`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openIndex(true)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := search.Options{
				Agent: agent,
				Limit: limit,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}
			writeTSV(os.Stdout, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "Only transcripts declaring this agent number")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")

	return cmd
}
