package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/scan"
)

func indexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Resolve the transcript manifest and rebuild the card and search cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			fmt.Fprintf(os.Stderr, "Resolving transcripts...\n")
			fmt.Fprintf(os.Stderr, "  Root:     %s\n", cfg.TranscriptRoot)
			if len(cfg.Transcripts) > 0 {
				fmt.Fprintf(os.Stderr, "  Manifest: %d entries\n", len(cfg.Transcripts))
			}

			files, err := scan.Resolve(cfg.TranscriptRoot, cfg.Transcripts)
			if err != nil {
				return fmt.Errorf("resolve transcripts: %w", err)
			}

			stats, err := index.IndexAll(db, files)
			if err != nil {
				return fmt.Errorf("index: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}
}
