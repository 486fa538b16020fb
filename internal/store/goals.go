package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/rcliao/daybook/internal/model"
)

var reminderTimeRegex = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func (s *SQLiteStore) CreateGoal(ctx context.Context, p CreateGoalParams) (*model.Goal, error) {
	title := strings.TrimSpace(p.Title)
	if title == "" {
		return nil, fmt.Errorf("goal title is required")
	}
	if p.ReminderTime != "" && !reminderTimeRegex.MatchString(p.ReminderTime) {
		return nil, fmt.Errorf("invalid reminder time %q (use HH:MM)", p.ReminderTime)
	}
	days, err := normalizeDays(p.ReminderDays)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	g := &model.Goal{
		ID:           s.newID(),
		Title:        title,
		Description:  strings.TrimSpace(p.Description),
		Frequency:    model.ParseFrequency(p.Frequency),
		ReminderTime: p.ReminderTime,
		ReminderDays: days,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := insertGoal(ctx, s.db, g); err != nil {
		return nil, err
	}
	return g, nil
}

func insertGoal(ctx context.Context, ex execer, g *model.Goal) error {
	var daysJSON *string
	if len(g.ReminderDays) > 0 {
		b, _ := json.Marshal(g.ReminderDays)
		s := string(b)
		daysJSON = &s
	}

	_, err := ex.ExecContext(ctx,
		`INSERT INTO goals (id, title, description, frequency, reminder_time, reminder_days, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Title, g.Description, string(g.Frequency), nullableString(g.ReminderTime), daysJSON,
		boolInt(g.Active), g.CreatedAt.UTC().Format(time.RFC3339), g.UpdatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert goal: %w", err)
	}
	return nil
}

func (s *SQLiteStore) GetGoal(ctx context.Context, id string) (*model.Goal, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = ?`, id)
	g, err := scanGoal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *SQLiteStore) ListGoals(ctx context.Context, activeOnly bool) ([]model.Goal, error) {
	query := `SELECT ` + goalColumns + ` FROM goals`
	if activeOnly {
		query += ` WHERE active = 1`
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []model.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, g)
	}
	return goals, rows.Err()
}

func (s *SQLiteStore) SetGoalActive(ctx context.Context, id string, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE goals SET active = ?, updated_at = ? WHERE id = ?`,
		boolInt(active), time.Now().UTC().Format(time.RFC3339), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteGoal removes a goal. Its check-ins go with it (ON DELETE CASCADE).
func (s *SQLiteStore) DeleteGoal(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM goals WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetCheckIn(ctx context.Context, goalID, date string) (*model.CheckIn, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+checkInColumns+` FROM goal_checkins WHERE goal_id = ? AND date = ?`, goalID, date)
	c, err := scanCheckIn(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("check-in %s@%s: %w", goalID, date, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLiteStore) InsertCheckIn(ctx context.Context, p CheckInParams) (*model.CheckIn, bool, error) {
	if err := validateDate(p.Date); err != nil {
		return nil, false, err
	}
	now := time.Now().UTC()
	c := &model.CheckIn{
		ID:        s.newID(),
		GoalID:    p.GoalID,
		Date:      p.Date,
		Completed: p.Completed,
		Note:      p.Note,
		CreatedAt: now,
	}

	// The (goal_id, date) unique constraint turns a concurrent duplicate into
	// a no-op.
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO goal_checkins (id, goal_id, date, completed, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (goal_id, date) DO NOTHING`,
		c.ID, c.GoalID, c.Date, boolInt(c.Completed), nullableString(c.Note), now.Format(time.RFC3339))
	if err != nil {
		return nil, false, fmt.Errorf("insert check-in: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		existing, err := s.GetCheckIn(ctx, p.GoalID, p.Date)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}
	return c, true, nil
}

func (s *SQLiteStore) UpsertCheckIn(ctx context.Context, p CheckInParams) (*model.CheckIn, error) {
	if err := validateDate(p.Date); err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO goal_checkins (id, goal_id, date, completed, note, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (goal_id, date) DO UPDATE SET completed = excluded.completed, note = excluded.note`,
		s.newID(), p.GoalID, p.Date, boolInt(p.Completed), nullableString(p.Note), now)
	if err != nil {
		return nil, fmt.Errorf("upsert check-in: %w", err)
	}
	return s.GetCheckIn(ctx, p.GoalID, p.Date)
}

func (s *SQLiteStore) CompletedCheckIns(ctx context.Context, goalID string) ([]model.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+checkInColumns+` FROM goal_checkins
		 WHERE goal_id = ? AND completed = 1
		 ORDER BY date DESC`, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const goalColumns = `id, title, description, frequency, reminder_time, reminder_days, active, created_at, updated_at`

func scanGoal(row scanner) (model.Goal, error) {
	var g model.Goal
	var freq string
	var reminderTime, reminderDays sql.NullString
	var active int
	var createdAt, updatedAt string

	err := row.Scan(&g.ID, &g.Title, &g.Description, &freq, &reminderTime, &reminderDays, &active, &createdAt, &updatedAt)
	if err != nil {
		return g, err
	}
	g.Frequency = model.ParseFrequency(freq)
	g.ReminderTime = reminderTime.String
	if reminderDays.Valid {
		json.Unmarshal([]byte(reminderDays.String), &g.ReminderDays)
	}
	g.Active = active != 0
	g.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	g.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return g, nil
}

const checkInColumns = `id, goal_id, date, completed, note, created_at`

func scanCheckIn(row scanner) (model.CheckIn, error) {
	var c model.CheckIn
	var completed int
	var note sql.NullString
	var createdAt string

	if err := row.Scan(&c.ID, &c.GoalID, &c.Date, &completed, &note, &createdAt); err != nil {
		return c, err
	}
	c.Completed = completed != 0
	c.Note = note.String
	c.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return c, nil
}

func validateDate(d string) error {
	if _, err := time.Parse(model.DateLayout, d); err != nil {
		return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", d)
	}
	return nil
}

// normalizeDays validates weekday numbers (1=Mon..7=Sun) and removes duplicates.
func normalizeDays(days []int) ([]int, error) {
	var out []int
	seen := map[int]bool{}
	for _, d := range days {
		if d < 1 || d > 7 {
			return nil, fmt.Errorf("invalid reminder day %d (use 1=Mon .. 7=Sun)", d)
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
