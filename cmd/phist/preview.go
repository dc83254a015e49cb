package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/prompt-history/internal/render"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

func previewCmd() *cobra.Command {
	var line, width int
	var query string

	cmd := &cobra.Command{
		Use:   "preview <id>",
		Short: "Render a transcript for the terminal, marking the section at a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openIndex(false)
			if err != nil {
				return err
			}
			defer db.Close()

			row, text, err := db.LoadText(args[0])
			if err != nil {
				return err
			}

			if width <= 0 {
				if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
					width = w
				}
			}

			view := render.Terminal(transcript.Segment(text), render.TerminalOptions{
				Header:  fmt.Sprintf("#%d  %s  %s", row.Index, row.SizeLabel, row.ID),
				HitLine: line,
				Width:   width,
				Query:   query,
			})
			fmt.Print(view.Content)
			return nil
		},
	}

	cmd.Flags().IntVar(&line, "line", 0, "Source line to mark")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width (0 = terminal width)")

	return cmd
}
