package store

import (
	"context"
	"os"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string      `json:"db_path"`
	DBSizeBytes    int64       `json:"db_size_bytes"`
	TotalEntries   int         `json:"total_entries"`
	TotalWords     int         `json:"total_words"`
	IndexedEntries int         `json:"indexed_entries"`
	TotalGoals     int         `json:"total_goals"`
	ActiveGoals    int         `json:"active_goals"`
	TotalCheckIns  int         `json:"total_checkins"`
	Moods          []MoodStats `json:"moods"`
}

// MoodStats holds per-mood entry counts.
type MoodStats struct {
	Mood  string `json:"mood"`
	Count int    `json:"count"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(word_count), 0) FROM entries`).Scan(&st.TotalEntries, &st.TotalWords)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries_fts`).Scan(&st.IndexedEntries)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*), COALESCE(SUM(active), 0) FROM goals`).Scan(&st.TotalGoals, &st.ActiveGoals)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM goal_checkins`).Scan(&st.TotalCheckIns)

	rows, err := s.db.QueryContext(ctx, `
		SELECT mood, COUNT(*) AS cnt
		FROM entries WHERE mood IS NOT NULL
		GROUP BY mood ORDER BY cnt DESC, mood`)
	if err != nil {
		return st, err
	}
	defer rows.Close()

	for rows.Next() {
		var m MoodStats
		rows.Scan(&m.Mood, &m.Count)
		st.Moods = append(st.Moods, m)
	}

	return st, nil
}
