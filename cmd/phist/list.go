package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Zuo-Peng/prompt-history/internal/search"
	"github.com/Zuo-Peng/prompt-history/internal/tui"
)

func listCmd() *cobra.Command {
	var agent string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Browse all transcript cards in manifest order",
		Long:  `Opens a TUI panel showing every transcript card in manifest order. Type to filter by summary. Prints TSV when stdout is not a terminal.`,
		Args:  cobra.NoArgs,
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

			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.RunList(db, opts)
			}

			results, err := search.ListAll(db, opts)
			if err != nil {
				return err
			}
			writeTSV(os.Stdout, results)
			return nil
		},
	}

	cmd.Flags().StringVar(&agent, "agent", "", "Only transcripts declaring this agent number")
	cmd.Flags().IntVar(&limit, "limit", 0, "Max results (0 = no limit)")

	return cmd
}
