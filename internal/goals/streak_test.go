package goals

import (
	"testing"
	"time"

	"github.com/rcliao/daybook/internal/model"
)

// ref is Thursday 2026-03-12; its week starts Monday 2026-03-09.
var ref = time.Date(2026, time.March, 12, 18, 30, 0, 0, time.UTC)

func daysAgo(n int) string {
	return ref.AddDate(0, 0, -n).Format(model.DateLayout)
}

func completed(dates ...string) []model.CheckIn {
	out := make([]model.CheckIn, 0, len(dates))
	for _, d := range dates {
		out = append(out, model.CheckIn{Date: d, Completed: true})
	}
	return out
}

func TestCalculateStreak(t *testing.T) {
	tests := []struct {
		name     string
		checkIns []model.CheckIn
		want     int
	}{
		{"empty", nil, 0},
		{"four consecutive days", completed(daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(3)), 4},
		{"gap stops the count", completed(daysAgo(0), daysAgo(1), daysAgo(3)), 2},
		{"starts yesterday", completed(daysAgo(1), daysAgo(2)), 2},
		{"too old", completed(daysAgo(2)), 0},
		{"long run too old", completed(daysAgo(2), daysAgo(3), daysAgo(4), daysAgo(5)), 0},
		{"duplicates count once", completed(daysAgo(0), daysAgo(0), daysAgo(1)), 2},
		{"future ignored", completed(ref.AddDate(0, 0, 1).Format(model.DateLayout), daysAgo(0)), 1},
		{"malformed excluded", completed("not-a-date", daysAgo(0), "2026/03/11"), 1},
		{
			"incomplete check-ins ignored",
			[]model.CheckIn{
				{Date: daysAgo(0), Completed: true},
				{Date: daysAgo(1), Completed: false},
				{Date: daysAgo(2), Completed: true},
			},
			1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateStreak(tt.checkIns, ref); got != tt.want {
				t.Errorf("CalculateStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateStreakAcrossMonthBoundary(t *testing.T) {
	r := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	got := CalculateStreak(completed("2026-03-01", "2026-02-28", "2026-02-27"), r)
	if got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
}

func TestLongestStreak(t *testing.T) {
	checkIns := completed("2026-01-01", "2026-01-02", "2026-01-03", "2026-01-10", "2026-01-11")
	if got := LongestStreak(checkIns); got != 3 {
		t.Errorf("expected 3, got %d", got)
	}
	if got := LongestStreak(nil); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestCalculateProgressDaily(t *testing.T) {
	goal := model.Goal{Frequency: model.Daily}

	// Five check-ins over the last ten days, three of them this week.
	checkIns := completed(daysAgo(9), daysAgo(7), daysAgo(3), daysAgo(2), daysAgo(0))
	if got := CalculateProgress(goal, checkIns, ref); got != 43 {
		t.Errorf("expected round(100*3/7) = 43, got %d", got)
	}

	full := completed("2026-03-09", "2026-03-10", "2026-03-11", "2026-03-12")
	if got := CalculateProgress(goal, full, ref); got != 57 {
		t.Errorf("expected 57, got %d", got)
	}

	if got := CalculateProgress(goal, nil, ref); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestCalculateProgressDailyCapped(t *testing.T) {
	sunday := time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)
	var dates []string
	for i := 0; i < 7; i++ {
		dates = append(dates, sunday.AddDate(0, 0, -i).Format(model.DateLayout))
	}
	if got := CalculateProgress(model.Goal{Frequency: model.Daily}, completed(dates...), sunday); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

func TestCalculateProgressWeekly(t *testing.T) {
	goal := model.Goal{Frequency: model.Weekly}

	// March 1-12 2026 spans ISO weeks 9, 10 and 11.
	checkIns := completed("2026-03-01", "2026-03-10", "2026-03-11", "2026-02-25")
	if got := CalculateProgress(goal, checkIns, ref); got != 67 {
		t.Errorf("expected round(100*2/3) = 67, got %d", got)
	}

	all := completed("2026-03-01", "2026-03-04", "2026-03-12")
	if got := CalculateProgress(goal, all, ref); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

func TestCalculateProgressMonthly(t *testing.T) {
	goal := model.Goal{Frequency: model.Monthly}

	checkIns := completed("2025-12-20", "2026-01-15", "2026-03-02", "2026-03-05")
	if got := CalculateProgress(goal, checkIns, ref); got != 67 {
		t.Errorf("expected round(100*2/3) = 67, got %d", got)
	}

	all := completed("2026-01-15", "2026-02-02", "2026-03-05")
	if got := CalculateProgress(goal, all, ref); got != 100 {
		t.Errorf("expected 100, got %d", got)
	}
}

func TestCalculateProgressUnknownFrequency(t *testing.T) {
	checkIns := completed(daysAgo(0), daysAgo(1))
	unknown := CalculateProgress(model.Goal{Frequency: "sometimes"}, checkIns, ref)
	daily := CalculateProgress(model.Goal{Frequency: model.Daily}, checkIns, ref)
	if unknown != daily {
		t.Errorf("expected unknown frequency to behave as daily: %d vs %d", unknown, daily)
	}
}

func TestComputeStats(t *testing.T) {
	goal := model.Goal{ID: "g1", Title: "Write", Frequency: model.Daily}
	checkIns := completed(daysAgo(0), daysAgo(1), daysAgo(5), daysAgo(6), daysAgo(7))

	st := ComputeStats(goal, checkIns, ref)
	if st.CurrentStreak != 2 || st.LongestStreak != 3 || st.TotalCompleted != 5 {
		t.Errorf("unexpected stats %+v", st)
	}
	if st.LastCheckIn != daysAgo(0) {
		t.Errorf("expected last check-in %s, got %s", daysAgo(0), st.LastCheckIn)
	}
	if st.Progress != 29 {
		t.Errorf("expected progress 29, got %d", st.Progress)
	}
}
