package goals

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rcliao/daybook/internal/store"
)

func newTestTracker(t *testing.T, now time.Time) (*Tracker, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return NewTracker(s, func() time.Time { return now }, nil), s
}

func TestIsWritingRelated(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Write daily", true},
		{"JOURNAL every night", true},
		{"500 words", true},
		{"Diary habit", true},
		{"One entry a week", true},
		{"Rewriting notes", true},
		{"Exercise", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsWritingRelated(tt.title); got != tt.want {
			t.Errorf("IsWritingRelated(%q) = %v, want %v", tt.title, got, tt.want)
		}
	}
}

func TestAutoCheckInWritingGoals(t *testing.T) {
	ctx := context.Background()
	tr, s := newTestTracker(t, ref)

	writing, _ := s.CreateGoal(ctx, store.CreateGoalParams{Title: "Write daily"})
	s.CreateGoal(ctx, store.CreateGoalParams{Title: "Exercise"})
	paused, _ := s.CreateGoal(ctx, store.CreateGoalParams{Title: "Journal"})
	s.SetGoalActive(ctx, paused.ID, false)

	ids, err := tr.AutoCheckInWritingGoals(ctx)
	if err != nil {
		t.Fatalf("auto check-in: %v", err)
	}
	if len(ids) != 1 || ids[0] != writing.ID {
		t.Fatalf("expected only the active writing goal, got %v", ids)
	}

	c, err := s.GetCheckIn(ctx, writing.ID, "2026-03-12")
	if err != nil {
		t.Fatalf("get check-in: %v", err)
	}
	if !c.Completed {
		t.Error("expected completed check-in")
	}
}

func TestAutoCheckInIdempotent(t *testing.T) {
	ctx := context.Background()
	tr, s := newTestTracker(t, ref)

	g, _ := s.CreateGoal(ctx, store.CreateGoalParams{Title: "Write daily"})

	first, _ := tr.AutoCheckInWritingGoals(ctx)
	second, err := tr.AutoCheckInWritingGoals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 || len(second) != 0 {
		t.Errorf("expected one check-in then none, got %v then %v", first, second)
	}

	all, _ := s.CompletedCheckIns(ctx, g.ID)
	if len(all) != 1 {
		t.Errorf("expected exactly 1 check-in, got %d", len(all))
	}
}

func TestAutoCheckInConcurrent(t *testing.T) {
	ctx := context.Background()
	tr, s := newTestTracker(t, ref)

	g, _ := s.CreateGoal(ctx, store.CreateGoalParams{Title: "Write daily"})

	var wg sync.WaitGroup
	var mu sync.Mutex
	total := 0
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids, err := tr.AutoCheckInWritingGoals(ctx)
			if err != nil {
				t.Errorf("auto check-in: %v", err)
				return
			}
			mu.Lock()
			total += len(ids)
			mu.Unlock()
		}()
	}
	wg.Wait()

	if total != 1 {
		t.Errorf("expected the goal checked in once, got %d", total)
	}
	all, _ := s.CompletedCheckIns(ctx, g.ID)
	if len(all) != 1 {
		t.Errorf("expected exactly 1 check-in, got %d", len(all))
	}
}

func TestWritingGoalProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("none", func(t *testing.T) {
		tr, s := newTestTracker(t, ref)
		s.CreateGoal(ctx, store.CreateGoalParams{Title: "Exercise"})
		if _, ok, _ := tr.WritingGoalProgress(ctx); ok {
			t.Error("expected no progress without a writing goal")
		}
	})

	t.Run("daily", func(t *testing.T) {
		tr, s := newTestTracker(t, ref)
		g, _ := s.CreateGoal(ctx, store.CreateGoalParams{Title: "Write daily"})
		for _, d := range []string{"2026-03-06", "2026-03-09", "2026-03-11"} {
			s.InsertCheckIn(ctx, store.CheckInParams{GoalID: g.ID, Date: d, Completed: true})
		}
		got, ok, err := tr.WritingGoalProgress(ctx)
		if err != nil || !ok {
			t.Fatalf("ok=%v err=%v", ok, err)
		}
		if got != "2/7 this week" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("weekly", func(t *testing.T) {
		tr, s := newTestTracker(t, ref)
		g, _ := s.CreateGoal(ctx, store.CreateGoalParams{Title: "Diary", Frequency: "weekly"})
		for _, d := range []string{"2026-02-27", "2026-03-02", "2026-03-09", "2026-03-10"} {
			s.InsertCheckIn(ctx, store.CheckInParams{GoalID: g.ID, Date: d, Completed: true})
		}
		got, ok, _ := tr.WritingGoalProgress(ctx)
		if !ok || got != "3 entries this month" {
			t.Errorf("got %q ok=%v", got, ok)
		}
	})

	t.Run("monthly has no summary", func(t *testing.T) {
		tr, s := newTestTracker(t, ref)
		s.CreateGoal(ctx, store.CreateGoalParams{Title: "Journal review", Frequency: "monthly"})
		if _, ok, _ := tr.WritingGoalProgress(ctx); ok {
			t.Error("expected no summary for monthly goals")
		}
	})
}

func TestGoalStats(t *testing.T) {
	ctx := context.Background()
	tr, s := newTestTracker(t, ref)

	g, _ := s.CreateGoal(ctx, store.CreateGoalParams{Title: "Write"})
	for _, d := range []string{"2026-03-10", "2026-03-11", "2026-03-12"} {
		s.InsertCheckIn(ctx, store.CheckInParams{GoalID: g.ID, Date: d, Completed: true})
	}

	st, err := tr.GoalStats(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if st.CurrentStreak != 3 || st.Progress != 43 {
		t.Errorf("unexpected stats %+v", st)
	}

	all, err := tr.AllStats(ctx, true)
	if err != nil || len(all) != 1 {
		t.Errorf("expected 1 stats row, got %d (%v)", len(all), err)
	}
}
