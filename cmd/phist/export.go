package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/prompt-history/internal/render"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

func exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Render a transcript to HTML (files banner followed by turns)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openIndex(false)
			if err != nil {
				return err
			}
			defer db.Close()

			_, text, err := db.LoadText(args[0])
			if err != nil {
				return err
			}
			out := render.HTML(transcript.Segment(text))

			if output == "" || output == "-" {
				fmt.Print(out)
				return nil
			}
			if err := os.WriteFile(output, []byte(out), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(os.Stderr, "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}
