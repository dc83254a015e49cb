package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/scan"
)

func doctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify root, manifest, DB, FTS5, and show stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("=== Root ===")
			checkDir("Transcripts", cfg.TranscriptRoot)

			fmt.Println("\n=== Manifest ===")
			files, err := scan.Resolve(cfg.TranscriptRoot, cfg.Transcripts)
			if err != nil {
				fmt.Printf("  resolve error: %v\n", err)
			} else {
				missing := 0
				for _, f := range files {
					if f.Mtime == 0 {
						missing++
						fmt.Printf("  missing: #%d %s (%s)\n", f.Index, f.ID, f.Path)
					}
				}
				if len(cfg.Transcripts) > 0 {
					fmt.Printf("  Entries:     %d\n", len(cfg.Transcripts))
				} else {
					fmt.Println("  No manifest, scanning root")
				}
				fmt.Printf("  Transcripts: %d (%d missing)\n", len(files), missing)
			}

			fmt.Println("\n=== Database ===")
			fmt.Printf("  Path: %s\n", cfg.DBPath)
			if _, err := os.Stat(cfg.DBPath); os.IsNotExist(err) {
				fmt.Println("  Status: NOT FOUND (run 'phist index' first)")
				return nil
			}

			db, err := index.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			transcriptCount, err := db.TranscriptCount()
			if err != nil {
				return fmt.Errorf("count transcripts: %w", err)
			}
			lineCount, err := db.LineCount()
			if err != nil {
				return fmt.Errorf("count lines: %w", err)
			}

			fmt.Printf("  Transcripts: %d\n", transcriptCount)
			fmt.Printf("  Lines:       %d\n", lineCount)

			fmt.Println("\n=== FTS5 ===")
			var ftsCount int
			err = db.Raw().QueryRow("SELECT COUNT(*) FROM lines_fts").Scan(&ftsCount)
			if err != nil {
				fmt.Printf("  FTS5 error: %v\n", err)
			} else {
				fmt.Printf("  FTS5 entries: %d\n", ftsCount)
				if ftsCount == lineCount {
					fmt.Println("  Status: OK (synced)")
				} else {
					fmt.Printf("  Status: MISMATCH (lines=%d, fts=%d)\n", lineCount, ftsCount)
				}
			}

			if info, err := os.Stat(cfg.DBPath); err == nil {
				fmt.Printf("\n=== DB Size: %s ===\n", humanize.Bytes(uint64(info.Size())))
			}

			return nil
		},
	}
}

func checkDir(name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Printf("  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Printf("  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Printf("  %s: %s (OK)\n", name, path)
	}
}
