package goals

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/store"
)

// writingKeywords mark a goal title as being about writing.
var writingKeywords = []string{"write", "writing", "journal", "diary", "entry", "entries", "words"}

// IsWritingRelated reports whether a goal title mentions writing.
func IsWritingRelated(title string) bool {
	t := strings.ToLower(title)
	for _, kw := range writingKeywords {
		if strings.Contains(t, kw) {
			return true
		}
	}
	return false
}

// CheckInStore is the persistence the tracker needs.
type CheckInStore interface {
	GetGoal(ctx context.Context, id string) (*model.Goal, error)
	ListGoals(ctx context.Context, activeOnly bool) ([]model.Goal, error)
	GetCheckIn(ctx context.Context, goalID, date string) (*model.CheckIn, error)
	InsertCheckIn(ctx context.Context, p store.CheckInParams) (*model.CheckIn, bool, error)
	CompletedCheckIns(ctx context.Context, goalID string) ([]model.CheckIn, error)
}

// Tracker answers goal questions against a store at the current date.
type Tracker struct {
	store CheckInStore
	now   func() time.Time
	log   *slog.Logger
}

// NewTracker returns a Tracker. A nil clock means time.Now.
func NewTracker(s CheckInStore, clock func() time.Time, logger *slog.Logger) *Tracker {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tracker{store: s, now: clock, log: logger}
}

// Today returns the tracker's current date as YYYY-MM-DD.
func (t *Tracker) Today() string {
	return t.now().Format(model.DateLayout)
}

// writingGoals returns active goals whose title is about writing.
func (t *Tracker) writingGoals(ctx context.Context) ([]model.Goal, error) {
	active, err := t.store.ListGoals(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list active goals: %w", err)
	}
	var out []model.Goal
	for _, g := range active {
		if IsWritingRelated(g.Title) {
			out = append(out, g)
		}
	}
	return out, nil
}

// AutoCheckInWritingGoals completes today's check-in for every active
// writing goal that doesn't have one yet and returns their IDs. Calling it
// again on the same day checks in nothing.
func (t *Tracker) AutoCheckInWritingGoals(ctx context.Context) ([]string, error) {
	goals, err := t.writingGoals(ctx)
	if err != nil {
		return nil, err
	}

	today := t.Today()
	var checked []string
	for _, g := range goals {
		_, err := t.store.GetCheckIn(ctx, g.ID, today)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return checked, fmt.Errorf("get check-in %s: %w", g.ID, err)
		}

		// A concurrent save may win the race; the unique constraint makes
		// that a no-op here.
		_, inserted, err := t.store.InsertCheckIn(ctx, store.CheckInParams{
			GoalID:    g.ID,
			Date:      today,
			Completed: true,
		})
		if err != nil {
			return checked, fmt.Errorf("check in %s: %w", g.ID, err)
		}
		if inserted {
			t.log.Info("auto check-in", "goal", g.ID, "title", g.Title, "date", today)
			checked = append(checked, g.ID)
		}
	}
	return checked, nil
}

// WritingGoalProgress describes progress of the first active writing goal:
// "N/7 this week" for daily goals, "N entries this month" for weekly ones.
// The bool is false when there is nothing to show.
func (t *Tracker) WritingGoalProgress(ctx context.Context) (string, bool, error) {
	goals, err := t.writingGoals(ctx)
	if err != nil {
		return "", false, err
	}
	if len(goals) == 0 {
		return "", false, nil
	}
	g := goals[0]

	checkIns, err := t.store.CompletedCheckIns(ctx, g.ID)
	if err != nil {
		return "", false, fmt.Errorf("check-ins %s: %w", g.ID, err)
	}
	days := completedDays(checkIns)
	today := civil(t.now())

	switch g.Frequency {
	case model.Daily:
		n := 0
		for _, d := range days {
			if inRange(d, weekStart(today), today) {
				n++
			}
		}
		return fmt.Sprintf("%d/7 this week", n), true, nil
	case model.Weekly:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		n := 0
		for _, d := range days {
			if inRange(d, first, today) {
				n++
			}
		}
		return fmt.Sprintf("%d entries this month", n), true, nil
	default:
		return "", false, nil
	}
}

// GoalStats computes stats for one goal at the tracker's current date.
func (t *Tracker) GoalStats(ctx context.Context, goalID string) (*Stats, error) {
	g, err := t.store.GetGoal(ctx, goalID)
	if err != nil {
		return nil, err
	}
	checkIns, err := t.store.CompletedCheckIns(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("check-ins %s: %w", g.ID, err)
	}
	st := ComputeStats(*g, checkIns, t.now())
	return &st, nil
}

// AllStats computes stats for every goal, active ones only when asked.
func (t *Tracker) AllStats(ctx context.Context, activeOnly bool) ([]Stats, error) {
	goals, err := t.store.ListGoals(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]Stats, 0, len(goals))
	for _, g := range goals {
		checkIns, err := t.store.CompletedCheckIns(ctx, g.ID)
		if err != nil {
			return nil, fmt.Errorf("check-ins %s: %w", g.ID, err)
		}
		out = append(out, ComputeStats(g, checkIns, t.now()))
	}
	return out, nil
}
