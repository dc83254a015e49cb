package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

func metaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "meta <id>",
		Short: "Print the metadata record of a transcript as JSON",
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

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(transcript.ExtractMetadata(row.ID, text))
		},
	}
}
