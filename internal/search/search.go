package search

import (
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/prompt-history/internal/index"
)

type Result struct {
	ID        string
	Line      int // source line of the hit; 0 for plain listings
	Index     int
	SizeLabel string
	Summary   string
	Snippet   string
	Rank      float64

	// card statistics of the transcript
	MessageCount int
	ToolCalls    int
	FilesChanged int
	Agent        string
}

type Options struct {
	Query string
	Agent string // "" = all, otherwise only transcripts declaring this agent
	Limit int
}

// containsCJK returns true if the string contains any CJK Unified Ideograph.
func containsCJK(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

// makeSnippet extracts a snippet around the first occurrence of query in text.
func makeSnippet(text, query string, contextChars int) string {
	lower := strings.ToLower(text)
	qLower := strings.ToLower(query)
	idx := strings.Index(lower, qLower)
	if idx < 0 || len(qLower) != len(query) {
		// no match, return head
		if len([]rune(text)) > contextChars*2 {
			return string([]rune(text)[:contextChars*2]) + "..."
		}
		return text
	}
	runes := []rune(text)
	qRunes := []rune(query)
	// find rune position of idx
	runePos := len([]rune(text[:idx]))
	start := runePos - contextChars
	if start < 0 {
		start = 0
	}
	end := runePos + len(qRunes) + contextChars
	if end > len(runes) {
		end = len(runes)
	}
	prefix := ""
	suffix := ""
	if start > 0 {
		prefix = "..."
	}
	if end < len(runes) {
		suffix = "..."
	}
	// wrap the matched part with markers
	snippet := string(runes[start:runePos]) +
		">>>" + string(runes[runePos:runePos+len(qRunes)]) + "<<<" +
		string(runes[runePos+len(qRunes):end])
	return prefix + snippet + suffix
}

// ftsOperators pass through to FTS5 unquoted.
var ftsOperators = map[string]bool{"AND": true, "OR": true, "NOT": true}

// ftsQuery quotes every term so punctuation in transcripts ("path:",
// "[Tool") cannot break FTS5 syntax. A trailing * keeps prefix matching.
func ftsQuery(q string) string {
	var parts []string
	for _, term := range strings.Fields(q) {
		if ftsOperators[term] {
			parts = append(parts, term)
			continue
		}
		prefix := strings.HasSuffix(term, "*")
		term = strings.Trim(term, `"*`)
		if term == "" {
			continue
		}
		quoted := `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
		if prefix {
			quoted += "*"
		}
		parts = append(parts, quoted)
	}
	return strings.Join(parts, " ")
}

// Search finds transcript lines matching opts.Query, best hit per transcript.
func Search(db *index.DB, opts Options) ([]Result, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	// Fetch more results before dedup so we still have enough after
	origLimit := opts.Limit
	opts.Limit = origLimit * 3

	var results []Result
	var err error
	if containsCJK(opts.Query) {
		results, err = searchLike(db, opts)
	} else {
		q := ftsQuery(opts.Query)
		if q == "" {
			return nil, nil
		}
		opts.Query = q
		results, err = searchFTS(db, opts)
	}
	if err != nil {
		return nil, err
	}

	// Deduplicate: keep only the best-ranked result per transcript
	seen := make(map[string]bool)
	var deduped []Result
	for _, r := range results {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		deduped = append(deduped, r)
		if len(deduped) >= origLimit {
			break
		}
	}
	return deduped, nil
}

func searchFTS(db *index.DB, opts Options) ([]Result, error) {
	conditions := []string{"lines_fts MATCH ?"}
	args := []interface{}{opts.Query}

	if opts.Agent != "" {
		conditions = append(conditions, "t.agent = ?")
		args = append(args, opts.Agent)
	}

	query := fmt.Sprintf(`
		SELECT
			l.transcript_id,
			l.line_no,
			t.idx,
			t.size_label,
			t.summary,
			t.message_count,
			t.tool_calls,
			t.files_changed,
			t.agent,
			snippet(lines_fts, 0, '>>>','<<<', '...', 40) as snip,
			bm25(lines_fts, 1.0) as rank
		FROM lines_fts
		JOIN lines l ON lines_fts.rowid = l.rowid
		JOIN transcripts t ON l.transcript_id = t.id
		WHERE %s
		ORDER BY rank
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	return scanResults(rows)
}

func searchLike(db *index.DB, opts Options) ([]Result, error) {
	// LIKE match for CJK substring search
	conditions := []string{"l.text LIKE ?"}
	args := []interface{}{"%" + opts.Query + "%"}

	if opts.Agent != "" {
		conditions = append(conditions, "t.agent = ?")
		args = append(args, opts.Agent)
	}

	query := fmt.Sprintf(`
		SELECT
			l.transcript_id,
			l.line_no,
			t.idx,
			t.size_label,
			t.summary,
			t.message_count,
			t.tool_calls,
			t.files_changed,
			t.agent,
			l.text
		FROM lines l
		JOIN transcripts t ON l.transcript_id = t.id
		WHERE %s
		ORDER BY t.idx, l.line_no
		LIMIT ?
	`, strings.Join(conditions, " AND "))

	args = append(args, opts.Limit)

	rows, err := db.Raw().Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("search query: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var fullText string
		if err := rows.Scan(&r.ID, &r.Line, &r.Index, &r.SizeLabel, &r.Summary,
			&r.MessageCount, &r.ToolCalls, &r.FilesChanged, &r.Agent, &fullText); err != nil {
			return nil, err
		}
		r.Snippet = makeSnippet(fullText, opts.Query, 30)
		results = append(results, r)
	}
	return results, rows.Err()
}

func scanResults(rows *sql.Rows) ([]Result, error) {
	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.Line, &r.Index, &r.SizeLabel, &r.Summary,
			&r.MessageCount, &r.ToolCalls, &r.FilesChanged, &r.Agent, &r.Snippet, &r.Rank); err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListAll returns every cached transcript card as a result, in manifest order.
func ListAll(db *index.DB, opts Options) ([]Result, error) {
	cards, err := db.ListTranscripts()
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, c := range cards {
		if opts.Agent != "" && c.Agent != opts.Agent {
			continue
		}
		results = append(results, Result{
			ID:           c.ID,
			Index:        c.Index,
			SizeLabel:    c.SizeLabel,
			Summary:      c.Summary,
			Snippet:      fmt.Sprintf("%d messages, %d tool calls, %d files", c.MessageCount, c.ToolCalls, c.FilesChanged),
			MessageCount: c.MessageCount,
			ToolCalls:    c.ToolCalls,
			FilesChanged: c.FilesChanged,
			Agent:        c.Agent,
		})
		if opts.Limit > 0 && len(results) >= opts.Limit {
			break
		}
	}
	return results, nil
}
