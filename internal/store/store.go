// Package store provides diary persistence backed by SQLite, including the
// full-text index that mirrors entry text.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/daybook/internal/model"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// CreateEntryParams holds parameters for creating an entry.
type CreateEntryParams struct {
	Title        string
	Content      string
	PlainContent string
	Mood         string
	Tags         []string
	Location     *model.Location
	Weather      *model.Weather
}

// UpdateEntryParams holds parameters for updating an entry.
// Nil fields are left unchanged.
type UpdateEntryParams struct {
	ID           string
	Title        *string
	Content      *string
	PlainContent *string
	Mood         *string
	Tags         []string
	Location     *model.Location
	Weather      *model.Weather
}

// ListEntriesParams holds parameters for listing entries.
type ListEntriesParams struct {
	Mood  string
	Tag   string
	Limit int
}

// CreateGoalParams holds parameters for creating a goal.
type CreateGoalParams struct {
	Title        string
	Description  string
	Frequency    string
	ReminderTime string
	ReminderDays []int
}

// CheckInParams holds parameters for recording a check-in.
type CheckInParams struct {
	GoalID    string
	Date      string // YYYY-MM-DD
	Completed bool
	Note      string
}

// EntryStore persists diary entries and keeps the search index in step.
type EntryStore interface {
	// CreateEntry stores a new entry and indexes it.
	CreateEntry(ctx context.Context, p CreateEntryParams) (*model.Entry, error)

	// UpdateEntry changes an entry and replaces its index record.
	UpdateEntry(ctx context.Context, p UpdateEntryParams) (*model.Entry, error)

	// DeleteEntry removes an entry and its index record.
	DeleteEntry(ctx context.Context, id string) error

	GetEntry(ctx context.Context, id string) (*model.Entry, error)
	ListEntries(ctx context.Context, p ListEntriesParams) ([]model.Entry, error)
	SearchEntries(ctx context.Context, p SearchParams) ([]SearchResult, error)
}

// GoalStore persists goals and their check-ins.
type GoalStore interface {
	CreateGoal(ctx context.Context, p CreateGoalParams) (*model.Goal, error)
	GetGoal(ctx context.Context, id string) (*model.Goal, error)
	ListGoals(ctx context.Context, activeOnly bool) ([]model.Goal, error)
	SetGoalActive(ctx context.Context, id string, active bool) error
	DeleteGoal(ctx context.Context, id string) error

	// GetCheckIn returns the check-in for a goal on a date, or ErrNotFound.
	GetCheckIn(ctx context.Context, goalID, date string) (*model.CheckIn, error)

	// InsertCheckIn adds a check-in unless one already exists for the
	// (goal, date) pair. The bool reports whether a row was inserted.
	InsertCheckIn(ctx context.Context, p CheckInParams) (*model.CheckIn, bool, error)

	// UpsertCheckIn records a check-in, replacing completion and note of an
	// existing one for the same date.
	UpsertCheckIn(ctx context.Context, p CheckInParams) (*model.CheckIn, error)

	// CompletedCheckIns returns every completed check-in of a goal, newest first.
	CompletedCheckIns(ctx context.Context, goalID string) ([]model.CheckIn, error)
}

// Store is the full persistence surface.
type Store interface {
	EntryStore
	GoalStore
	Close() error
}
