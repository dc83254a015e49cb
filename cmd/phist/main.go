package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/prompt-history/internal/config"
	"github.com/Zuo-Peng/prompt-history/internal/index"
	"github.com/Zuo-Peng/prompt-history/internal/logger"
	"github.com/Zuo-Peng/prompt-history/internal/scan"
)

var version = "dev"

// cfg is loaded once before any command runs.
var cfg *config.Config

func main() {
	var closeLog func() error

	rootCmd := &cobra.Command{
		Use:     "phist",
		Short:   "Prompt History - browse, search and render agent conversation transcripts",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			closeLog = logger.Init(logger.Options{Level: cfg.LogLevel, Path: cfg.LogPath})
			return nil
		},
	}

	rootCmd.AddCommand(indexCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(metaCmd())
	rootCmd.AddCommand(openCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(doctorCmd())

	err := rootCmd.Execute()
	if closeLog != nil {
		closeLog()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openIndex opens the cache. With refresh set, the manifest is resolved
// and the cache brought up to date first.
func openIndex(refresh bool) (*index.DB, error) {
	db, err := index.OpenDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if refresh {
		files, err := scan.Resolve(cfg.TranscriptRoot, cfg.Transcripts)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("resolve transcripts: %w", err)
		}
		if _, err := index.IndexAll(db, files); err != nil {
			db.Close()
			return nil, fmt.Errorf("index: %w", err)
		}
	}
	return db, nil
}
