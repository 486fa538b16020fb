// Package diary is the entry-write path: it saves entries, fills in weather
// context and checks in writing goals.
package diary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rcliao/daybook/internal/goals"
	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/store"
	"github.com/rcliao/daybook/internal/weather"
)

// Service saves entries and runs the follow-up work a save triggers.
type Service struct {
	entries store.EntryStore
	tracker *goals.Tracker
	weather *weather.Service
	log     *slog.Logger
}

// NewService returns a Service. Weather may be nil.
func NewService(entries store.EntryStore, tracker *goals.Tracker, w *weather.Service, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{entries: entries, tracker: tracker, weather: w, log: logger}
}

// SaveResult is the stored entry plus the writing goals checked in by it.
type SaveResult struct {
	Entry     *model.Entry `json:"entry"`
	CheckedIn []string     `json:"checked_in,omitempty"`
}

// Create stores a new entry and checks in today's writing goals. A failed
// check-in is logged and does not fail the save.
func (s *Service) Create(ctx context.Context, p store.CreateEntryParams) (*SaveResult, error) {
	p.Weather = s.resolveWeather(ctx, p.Location, p.Weather)

	e, err := s.entries.CreateEntry(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create entry: %w", err)
	}
	s.log.Debug("entry created", "id", e.ID, "words", e.WordCount)

	res := &SaveResult{Entry: e}
	if s.tracker != nil {
		ids, err := s.tracker.AutoCheckInWritingGoals(ctx)
		if err != nil {
			s.log.Warn("writing goal check-in failed", "entry", e.ID, "err", err)
		}
		res.CheckedIn = ids
	}
	return res, nil
}

// Update changes an existing entry.
func (s *Service) Update(ctx context.Context, p store.UpdateEntryParams) (*SaveResult, error) {
	p.Weather = s.resolveWeather(ctx, p.Location, p.Weather)
	e, err := s.entries.UpdateEntry(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}
	s.log.Debug("entry updated", "id", e.ID, "words", e.WordCount)
	return &SaveResult{Entry: e}, nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	s.log.Debug("entry deleted", "id", id)
	return nil
}

// resolveWeather records weather the caller observed at loc, or looks up a
// cached reading when none was given.
func (s *Service) resolveWeather(ctx context.Context, loc *model.Location, w *model.Weather) *model.Weather {
	if s.weather == nil || loc == nil {
		return w
	}
	if w != nil {
		s.weather.Remember(ctx, loc.Latitude, loc.Longitude, weather.Reading{Condition: w.Condition, TempC: w.TempC})
		return w
	}
	r := s.weather.Current(ctx, loc.Latitude, loc.Longitude)
	if r == nil {
		return nil
	}
	return &model.Weather{Condition: r.Condition, TempC: r.TempC}
}
