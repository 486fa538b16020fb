package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/textmetrics"
)

// ExportData is the full contents of a diary database.
type ExportData struct {
	Entries  []model.Entry   `json:"entries"`
	Goals    []model.Goal    `json:"goals"`
	CheckIns []model.CheckIn `json:"checkins"`
}

// ImportResult counts what Import stored.
type ImportResult struct {
	Entries  int `json:"entries"`
	Goals    int `json:"goals"`
	CheckIns int `json:"checkins"`
}

// ExportAll returns every entry, goal and check-in.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*ExportData, error) {
	data := &ExportData{}

	rows, err := s.db.QueryContext(ctx, `SELECT `+entryColumns+` FROM entries e ORDER BY e.seq`)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		data.Entries = append(data.Entries, e)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("export entries: %w", err)
	}

	data.Goals, err = s.ListGoals(ctx, false)
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT `+checkInColumns+` FROM goal_checkins ORDER BY goal_id, date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		data.CheckIns = append(data.CheckIns, c)
	}
	return data, rows.Err()
}

// Import stores exported data in one transaction. Entries and goals receive
// new IDs but keep their timestamps; check-ins follow their goal. Check-ins
// of unknown goals, and duplicates of an existing (goal, date), are skipped.
func (s *SQLiteStore) Import(ctx context.Context, data *ExportData) (*ImportResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	res := &ImportResult{}
	for _, in := range data.Entries {
		e := &model.Entry{
			ID:           s.newID(),
			Title:        strings.TrimSpace(in.Title),
			Content:      in.Content,
			PlainContent: in.PlainContent,
			Mood:         strings.TrimSpace(in.Mood),
			Tags:         normalizeTags(in.Tags),
			CreatedAt:    orNow(in.CreatedAt, now),
			UpdatedAt:    orNow(in.UpdatedAt, now),
			Location:     in.Location,
			Weather:      in.Weather,
		}
		e.WordCount = textmetrics.WordCount(textmetrics.PlainContent(e.PlainContent, e.Content))
		if err := insertEntry(ctx, tx, e); err != nil {
			return nil, fmt.Errorf("import entry %s: %w", in.ID, err)
		}
		res.Entries++
	}

	goalIDs := make(map[string]string, len(data.Goals))
	for _, in := range data.Goals {
		if strings.TrimSpace(in.Title) == "" {
			return nil, fmt.Errorf("import goal %s: goal title is required", in.ID)
		}
		days, err := normalizeDays(in.ReminderDays)
		if err != nil {
			return nil, fmt.Errorf("import goal %s: %w", in.ID, err)
		}
		g := &model.Goal{
			ID:           s.newID(),
			Title:        strings.TrimSpace(in.Title),
			Description:  strings.TrimSpace(in.Description),
			Frequency:    model.ParseFrequency(string(in.Frequency)),
			ReminderTime: in.ReminderTime,
			ReminderDays: days,
			Active:       in.Active,
			CreatedAt:    orNow(in.CreatedAt, now),
			UpdatedAt:    orNow(in.UpdatedAt, now),
		}
		if err := insertGoal(ctx, tx, g); err != nil {
			return nil, fmt.Errorf("import goal %s: %w", in.ID, err)
		}
		goalIDs[in.ID] = g.ID
		res.Goals++
	}

	for _, c := range data.CheckIns {
		goalID, ok := goalIDs[c.GoalID]
		if !ok {
			continue
		}
		if err := validateDate(c.Date); err != nil {
			return nil, fmt.Errorf("import check-in %s: %w", c.ID, err)
		}
		r, err := tx.ExecContext(ctx,
			`INSERT INTO goal_checkins (id, goal_id, date, completed, note, created_at)
			 VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (goal_id, date) DO NOTHING`,
			s.newID(), goalID, c.Date, boolInt(c.Completed), nullableString(c.Note),
			orNow(c.CreatedAt, now).UTC().Format(time.RFC3339))
		if err != nil {
			return nil, fmt.Errorf("import check-in %s: %w", c.ID, err)
		}
		if n, _ := r.RowsAffected(); n > 0 {
			res.CheckIns++
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return res, nil
}

func orNow(t, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
