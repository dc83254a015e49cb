package index

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Zuo-Peng/prompt-history/internal/sanitize"
	"github.com/Zuo-Peng/prompt-history/internal/scan"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

type Stats struct {
	Scanned int
	Updated int
	Skipped int
	Pruned  int
	Errors  int
}

func (s Stats) String() string {
	return fmt.Sprintf("scanned=%d updated=%d skipped=%d pruned=%d errors=%d",
		s.Scanned, s.Updated, s.Skipped, s.Pruned, s.Errors)
}

// IndexAll brings the cache in line with files: changed transcripts are
// re-read, unchanged ones skipped and vanished ones pruned.
func IndexAll(db *DB, files []scan.FileInfo) (Stats, error) {
	stats := Stats{Scanned: len(files)}

	// track which transcripts we see, for pruning
	seen := make(map[string]struct{})

	for _, fi := range files {
		needs, err := needsUpdate(db, fi)
		if err != nil {
			stats.Errors++
			slog.Warn("check transcript state", "id", fi.ID, "err", err)
			continue
		}
		if !needs {
			seen[fi.ID] = struct{}{}
			stats.Skipped++
			continue
		}

		text, err := scan.Read(fi.Path)
		if err != nil {
			stats.Errors++
			slog.Warn("read transcript", "id", fi.ID, "path", fi.Path, "err", err)
			continue
		}
		seen[fi.ID] = struct{}{}

		if err := indexTranscript(db, fi, text); err != nil {
			stats.Errors++
			slog.Warn("index transcript", "id", fi.ID, "err", err)
			continue
		}
		slog.Debug("indexed transcript", "id", fi.ID, "size", fi.SizeLabel)
		stats.Updated++
	}

	pruned, err := pruneTranscripts(db, seen)
	if err != nil {
		return stats, fmt.Errorf("prune: %w", err)
	}
	stats.Pruned = pruned

	return stats, nil
}

func needsUpdate(db *DB, fi scan.FileInfo) (bool, error) {
	st, err := db.GetFileState(fi.ID)
	if err != nil {
		return false, err
	}
	if st == nil {
		return true, nil // new transcript
	}
	return st.Mtime != fi.Mtime || st.Size != fi.Size ||
		st.Index != fi.Index || st.SizeLabel != fi.SizeLabel, nil
}

func indexTranscript(db *DB, fi scan.FileInfo, text string) error {
	// delete old data first
	if err := db.DeleteTranscript(fi.ID); err != nil {
		return err
	}

	meta := transcript.ExtractMetadata(fi.ID, text)

	tx, err := db.Raw().Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO transcripts (id, idx, size_label, file_path, summary, message_count, tool_calls, files_changed, agent, mtime, size)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		fi.ID,
		fi.Index,
		fi.SizeLabel,
		fi.Path,
		meta.Summary,
		meta.MessageCount,
		meta.ToolCalls,
		meta.FilesChanged,
		meta.Agent,
		fi.Mtime,
		fi.Size,
	)
	if err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT INTO lines (transcript_id, line_no, text) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, line := range strings.Split(sanitize.NormalizeNewlines(text), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if _, err := stmt.Exec(fi.ID, i+1, line); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func pruneTranscripts(db *DB, seen map[string]struct{}) (int, error) {
	all, err := db.AllTranscriptIDs()
	if err != nil {
		return 0, err
	}

	pruned := 0
	for id := range all {
		if _, ok := seen[id]; !ok {
			if err := db.DeleteTranscript(id); err != nil {
				return pruned, err
			}
			pruned++
		}
	}
	return pruned, nil
}
