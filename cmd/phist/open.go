package main

import (
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/prompt-history/internal/open"
)

func openCmd() *cobra.Command {
	var line int

	cmd := &cobra.Command{
		Use:   "open <id>",
		Short: "Open the raw transcript in $EDITOR at a line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openIndex(false)
			if err != nil {
				return err
			}
			defer db.Close()

			return open.OpenTranscript(db, args[0], line)
		},
	}

	cmd.Flags().IntVar(&line, "line", 0, "Line to jump to")

	return cmd
}
