package index

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/Zuo-Peng/prompt-history/internal/scan"
	"github.com/Zuo-Peng/prompt-history/internal/transcript"
)

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA cache_size = -64000;
PRAGMA busy_timeout = 5000;

CREATE TABLE IF NOT EXISTS transcripts (
    id            TEXT PRIMARY KEY,
    idx           INTEGER NOT NULL DEFAULT 0,
    size_label    TEXT NOT NULL DEFAULT '',
    file_path     TEXT NOT NULL,
    summary       TEXT NOT NULL DEFAULT '',
    message_count INTEGER NOT NULL DEFAULT 0,
    tool_calls    INTEGER NOT NULL DEFAULT 0,
    files_changed INTEGER NOT NULL DEFAULT 0,
    agent         TEXT NOT NULL DEFAULT '',
    mtime         INTEGER NOT NULL DEFAULT 0,
    size          INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS lines (
    transcript_id TEXT NOT NULL,
    line_no       INTEGER NOT NULL,
    text          TEXT NOT NULL,
    PRIMARY KEY (transcript_id, line_no)
);

CREATE VIRTUAL TABLE IF NOT EXISTS lines_fts USING fts5(
    text,
    content=lines,
    content_rowid=rowid,
    tokenize='unicode61'
);

-- triggers to keep FTS in sync
CREATE TRIGGER IF NOT EXISTS lines_ai AFTER INSERT ON lines BEGIN
    INSERT INTO lines_fts(rowid, text) VALUES (new.rowid, new.text);
END;

CREATE TRIGGER IF NOT EXISTS lines_ad AFTER DELETE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, text) VALUES('delete', old.rowid, old.text);
END;

CREATE TRIGGER IF NOT EXISTS lines_au AFTER UPDATE ON lines BEGIN
    INSERT INTO lines_fts(lines_fts, rowid, text) VALUES('delete', old.rowid, old.text);
    INSERT INTO lines_fts(rowid, text) VALUES (new.rowid, new.text);
END;
`

// DB caches metadata cards and raw transcript lines. Parsed turns and
// sections are never stored; they are rebuilt from the file on render.
type DB struct {
	db *sql.DB
}

func OpenDB(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	// schema version tracking for forced re-index
	db.Exec("CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT)")
	d := &DB{db: db}
	d.migrateSchemaVersion()

	return d, nil
}

// schemaVersion should be bumped whenever metadata extraction changes
// to force a full re-index.
const schemaVersion = "1"

func (d *DB) migrateSchemaVersion() {
	var ver string
	err := d.db.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&ver)
	if err != nil || ver != schemaVersion {
		// force re-index by resetting all mtime/size to 0
		d.db.Exec("UPDATE transcripts SET mtime = 0, size = 0")
		d.db.Exec("INSERT OR REPLACE INTO meta (key, value) VALUES ('schema_version', ?)", schemaVersion)
	}
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Raw() *sql.DB {
	return d.db
}

// FileState is what the indexer compares to decide whether to re-read a file.
type FileState struct {
	Index     int
	SizeLabel string
	Mtime     int64
	Size      int64
}

func (d *DB) GetFileState(id string) (*FileState, error) {
	var st FileState
	err := d.db.QueryRow(
		"SELECT idx, size_label, mtime, size FROM transcripts WHERE id = ?",
		id,
	).Scan(&st.Index, &st.SizeLabel, &st.Mtime, &st.Size)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (d *DB) AllTranscriptIDs() (map[string]struct{}, error) {
	rows, err := d.db.Query("SELECT id FROM transcripts")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (d *DB) DeleteTranscript(id string) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM lines WHERE transcript_id = ?", id); err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM transcripts WHERE id = ?", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) TranscriptCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM transcripts").Scan(&n)
	return n, err
}

func (d *DB) LineCount() (int, error) {
	var n int
	err := d.db.QueryRow("SELECT COUNT(*) FROM lines").Scan(&n)
	return n, err
}

// TranscriptRow is one cached card.
type TranscriptRow struct {
	ID           string
	Index        int
	SizeLabel    string
	FilePath     string
	Summary      string
	MessageCount int
	ToolCalls    int
	FilesChanged int
	Agent        string
}

func (r TranscriptRow) Metadata() transcript.Metadata {
	return transcript.Metadata{
		ID:           r.ID,
		Summary:      r.Summary,
		MessageCount: r.MessageCount,
		ToolCalls:    r.ToolCalls,
		FilesChanged: r.FilesChanged,
		Agent:        r.Agent,
	}
}

func (r TranscriptRow) Info() transcript.Info {
	return transcript.Info{ID: r.ID, SizeLabel: r.SizeLabel, Index: r.Index}
}

const transcriptColumns = "id, idx, size_label, file_path, summary, message_count, tool_calls, files_changed, agent"

type scanner interface {
	Scan(dest ...any) error
}

func scanTranscript(s scanner) (TranscriptRow, error) {
	var r TranscriptRow
	err := s.Scan(&r.ID, &r.Index, &r.SizeLabel, &r.FilePath, &r.Summary, &r.MessageCount, &r.ToolCalls, &r.FilesChanged, &r.Agent)
	return r, err
}

func (d *DB) GetTranscript(id string) (*TranscriptRow, error) {
	r, err := scanTranscript(d.db.QueryRow("SELECT "+transcriptColumns+" FROM transcripts WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Agents returns the distinct declared agent numbers, in numeric order.
func (d *DB) Agents() ([]string, error) {
	rows, err := d.db.Query("SELECT DISTINCT agent FROM transcripts WHERE agent != '' ORDER BY CAST(agent AS INTEGER), agent")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var agents []string
	for rows.Next() {
		var a string
		if err := rows.Scan(&a); err != nil {
			return nil, err
		}
		agents = append(agents, a)
	}
	return agents, rows.Err()
}

// ListTranscripts returns every card in manifest order.
func (d *DB) ListTranscripts() ([]TranscriptRow, error) {
	rows, err := d.db.Query("SELECT " + transcriptColumns + " FROM transcripts ORDER BY idx, id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TranscriptRow
	for rows.Next() {
		r, err := scanTranscript(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// LoadText returns a cached card together with the current raw text of its
// file. Unknown ids report scan.ErrNotFound.
func (d *DB) LoadText(id string) (*TranscriptRow, string, error) {
	row, err := d.GetTranscript(id)
	if err != nil {
		return nil, "", fmt.Errorf("get transcript: %w", err)
	}
	if row == nil {
		return nil, "", fmt.Errorf("%w: %s", scan.ErrNotFound, id)
	}
	text, err := scan.Read(row.FilePath)
	if err != nil {
		return row, "", err
	}
	return row, text, nil
}
