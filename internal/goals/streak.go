// Package goals computes streaks and progress for goals and automatically
// checks in writing goals when a diary entry is saved.
package goals

import (
	"math"
	"time"

	"github.com/rcliao/daybook/internal/model"
)

// civil truncates t to its calendar date, expressed in UTC so that date
// arithmetic is free of DST shifts.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dateKey(t time.Time) string {
	return t.Format(model.DateLayout)
}

// completedDays returns the distinct dates of completed check-ins. Dates
// that don't parse are left out.
func completedDays(checkIns []model.CheckIn) map[string]time.Time {
	days := make(map[string]time.Time, len(checkIns))
	for _, c := range checkIns {
		if !c.Completed {
			continue
		}
		d, err := time.Parse(model.DateLayout, c.Date)
		if err != nil {
			continue
		}
		days[dateKey(d)] = d
	}
	return days
}

// CalculateStreak counts consecutive days with a completed check-in, ending
// at ref or, when ref itself has none yet, at the day before ref.
func CalculateStreak(checkIns []model.CheckIn, ref time.Time) int {
	days := completedDays(checkIns)
	if len(days) == 0 {
		return 0
	}

	start := civil(ref)
	if _, ok := days[dateKey(start)]; !ok {
		start = start.AddDate(0, 0, -1)
		if _, ok := days[dateKey(start)]; !ok {
			return 0
		}
	}

	n := 0
	for d := start; ; d = d.AddDate(0, 0, -1) {
		if _, ok := days[dateKey(d)]; !ok {
			break
		}
		n++
	}
	return n
}

// LongestStreak returns the longest run of consecutive completed days.
func LongestStreak(checkIns []model.CheckIn) int {
	days := completedDays(checkIns)
	best := 0
	for _, d := range days {
		// Only count from the first day of a run.
		if _, ok := days[dateKey(d.AddDate(0, 0, -1))]; ok {
			continue
		}
		n := 0
		for cur := d; ; cur = cur.AddDate(0, 0, 1) {
			if _, ok := days[dateKey(cur)]; !ok {
				break
			}
			n++
		}
		if n > best {
			best = n
		}
	}
	return best
}

// CalculateProgress returns how much of the current period's target is met,
// as a percentage in [0, 100].
//
//	daily:   days completed from Monday through ref, out of 7
//	weekly:  ISO weeks with a completion this month, out of the weeks the
//	         month has touched so far
//	monthly: months with a completion this year, out of the months so far
func CalculateProgress(goal model.Goal, checkIns []model.CheckIn, ref time.Time) int {
	days := completedDays(checkIns)
	end := civil(ref)

	var done, target int
	switch model.ParseFrequency(string(goal.Frequency)) {
	case model.Weekly:
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)
		done = len(isoWeeksWith(days, start, end))
		target = len(isoWeeksBetween(start, end))
	case model.Monthly:
		start := time.Date(end.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		months := map[time.Month]bool{}
		for _, d := range days {
			if inRange(d, start, end) {
				months[d.Month()] = true
			}
		}
		done = len(months)
		target = int(end.Month())
	default:
		start := weekStart(end)
		for _, d := range days {
			if inRange(d, start, end) {
				done++
			}
		}
		target = 7
	}
	return percent(done, target)
}

// weekStart returns the Monday of d's week.
func weekStart(d time.Time) time.Time {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

func inRange(d, start, end time.Time) bool {
	return !d.Before(start) && !d.After(end)
}

type isoWeek struct{ year, week int }

func isoWeeksWith(days map[string]time.Time, start, end time.Time) map[isoWeek]bool {
	weeks := map[isoWeek]bool{}
	for _, d := range days {
		if inRange(d, start, end) {
			y, w := d.ISOWeek()
			weeks[isoWeek{y, w}] = true
		}
	}
	return weeks
}

func isoWeeksBetween(start, end time.Time) map[isoWeek]bool {
	weeks := map[isoWeek]bool{}
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		y, w := d.ISOWeek()
		weeks[isoWeek{y, w}] = true
	}
	return weeks
}

func percent(done, target int) int {
	if target <= 0 || done <= 0 {
		return 0
	}
	p := int(math.Round(100 * float64(done) / float64(target)))
	if p > 100 {
		return 100
	}
	return p
}

// Stats summarizes a goal's check-in history at a reference date.
type Stats struct {
	GoalID         string          `json:"goal_id"`
	Title          string          `json:"title"`
	Frequency      model.Frequency `json:"frequency"`
	CurrentStreak  int             `json:"current_streak"`
	LongestStreak  int             `json:"longest_streak"`
	Progress       int             `json:"progress"`
	TotalCompleted int             `json:"total_completed"`
	LastCheckIn    string          `json:"last_checkin,omitempty"`
}

// ComputeStats bundles streaks and progress for a goal.
func ComputeStats(goal model.Goal, checkIns []model.CheckIn, ref time.Time) Stats {
	days := completedDays(checkIns)
	st := Stats{
		GoalID:         goal.ID,
		Title:          goal.Title,
		Frequency:      model.ParseFrequency(string(goal.Frequency)),
		CurrentStreak:  CalculateStreak(checkIns, ref),
		LongestStreak:  LongestStreak(checkIns),
		Progress:       CalculateProgress(goal, checkIns, ref),
		TotalCompleted: len(days),
	}
	for k := range days {
		if k > st.LastCheckIn {
			st.LastCheckIn = k
		}
	}
	return st
}
