package store

import (
	"context"
	"strings"

	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/textmetrics"
)

// SearchParams holds parameters for searching entries.
type SearchParams struct {
	Query string
	Limit int
}

// SearchResult wraps an entry with its rank and a short preview.
type SearchResult struct {
	model.Entry
	Rank    float64 `json:"rank"`
	Preview string  `json:"preview"`
}

// SearchEntries runs a full-text query against entry titles, text and tags.
// Every term must match, as a token prefix.
func (s *SQLiteStore) SearchEntries(ctx context.Context, p SearchParams) ([]SearchResult, error) {
	ftsQuery := sanitizeFTS(p.Query)
	if ftsQuery == "" {
		return nil, nil
	}
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+entryColumns+`, fts.rank
		 FROM entries_fts fts
		 JOIN entries e ON e.seq = fts.rowid
		 WHERE entries_fts MATCH ?
		 ORDER BY fts.rank LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var rank float64
		e, err := scanEntry(rankScanner{row: rows, rank: &rank})
		if err != nil {
			return nil, err
		}
		results = append(results, SearchResult{
			Entry:   e,
			Rank:    rank,
			Preview: textmetrics.Preview(textmetrics.PlainContent(e.PlainContent, e.Content), 120),
		})
	}
	return results, rows.Err()
}

// rankScanner appends the rank column to an entry scan.
type rankScanner struct {
	row  scanner
	rank *float64
}

func (s rankScanner) Scan(dest ...any) error {
	return s.row.Scan(append(dest, s.rank)...)
}

// sanitizeFTS quotes each word so FTS5 doesn't choke on special chars, and
// marks it as a prefix term.
// "fix auth bug" → `"fix"* "auth"* "bug"*`
func sanitizeFTS(query string) string {
	words := strings.Fields(query)
	out := words[:0]
	for _, w := range words {
		w = strings.ReplaceAll(w, `"`, "")
		if w == "" {
			continue
		}
		out = append(out, `"`+w+`"*`)
	}
	return strings.Join(out, " ")
}
