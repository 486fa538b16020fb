package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/textmetrics"
)

// execer is satisfied by *sql.DB and *sql.Tx. Index writes always run on the
// transaction of the entry mutation that caused them.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// searchRecord projects an entry onto its index columns.
func searchRecord(seq int64, e *model.Entry) model.SearchRecord {
	return model.SearchRecord{
		RowID:   seq,
		Title:   e.Title,
		Content: textmetrics.PlainContent(e.PlainContent, e.Content),
		Tags:    strings.Join(e.Tags, " "),
	}
}

func indexEntry(ctx context.Context, tx execer, seq int64, e *model.Entry) error {
	r := searchRecord(seq, e)
	_, err := tx.ExecContext(ctx,
		`INSERT INTO entries_fts(rowid, title, content, tags) VALUES (?, ?, ?, ?)`,
		r.RowID, r.Title, r.Content, r.Tags)
	if err != nil {
		return fmt.Errorf("index entry: %w", err)
	}
	return nil
}

func unindexEntry(ctx context.Context, tx execer, seq int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM entries_fts WHERE rowid = ?`, seq); err != nil {
		return fmt.Errorf("unindex entry: %w", err)
	}
	return nil
}

// reindexEntry replaces the index record of an entry. Callers run it inside
// the entry's update transaction so readers never observe the gap.
func reindexEntry(ctx context.Context, tx execer, seq int64, e *model.Entry) error {
	if err := unindexEntry(ctx, tx, seq); err != nil {
		return err
	}
	return indexEntry(ctx, tx, seq, e)
}

// IndexRecord returns the current index record of an entry.
func (s *SQLiteStore) IndexRecord(ctx context.Context, id string) (*model.SearchRecord, error) {
	var r model.SearchRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT f.rowid, f.title, f.content, f.tags
		 FROM entries_fts f JOIN entries e ON e.seq = f.rowid
		 WHERE e.id = ?`, id).Scan(&r.RowID, &r.Title, &r.Content, &r.Tags)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("index record %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// RebuildIndex clears the index and backfills it from the entries table in a
// single transaction. Returns the number of indexed entries.
func (s *SQLiteStore) RebuildIndex(ctx context.Context) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries_fts`); err != nil {
		return 0, fmt.Errorf("clear index: %w", err)
	}

	rows, err := tx.QueryContext(ctx, `SELECT e.seq, `+entryColumns+` FROM entries e ORDER BY e.seq`)
	if err != nil {
		return 0, err
	}
	type pending struct {
		seq   int64
		entry model.Entry
	}
	var all []pending
	for rows.Next() {
		var seq int64
		e, err := scanEntry(seqScanner{row: rows, seq: &seq})
		if err != nil {
			rows.Close()
			return 0, err
		}
		all = append(all, pending{seq: seq, entry: e})
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return 0, err
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}

	for i := range all {
		if err := indexEntry(ctx, tx, all[i].seq, &all[i].entry); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(all), nil
}

// seqScanner prepends the seq column to an entry scan.
type seqScanner struct {
	row scanner
	seq *int64
}

func (s seqScanner) Scan(dest ...any) error {
	return s.row.Scan(append([]any{s.seq}, dest...)...)
}
