// Package reminder selects notification content for goal and writing
// reminders. It only builds payloads; posting them is the dispatcher's job.
package reminder

import (
	"strings"
	"time"

	"github.com/rcliao/daybook/internal/model"
)

// Variant is a reminder copy experiment arm.
type Variant string

const (
	Control Variant = "control"
	Gentle  Variant = "gentle"
	Silent  Variant = "silent"
)

const (
	controlTitle = "Time to write"
	gentleTitle  = "Your diary is here when you're ready"
)

// ParseVariant maps s onto a known variant. Unknown or empty values are Control.
func ParseVariant(s string) Variant {
	switch Variant(strings.ToLower(strings.TrimSpace(s))) {
	case Gentle:
		return Gentle
	case Silent:
		return Silent
	default:
		return Control
	}
}

// BuildContent returns the notification payload for a variant and label.
func BuildContent(variant, label string) model.ReminderContent {
	switch ParseVariant(variant) {
	case Silent:
		return model.ReminderContent{Silent: true, Priority: model.PriorityLow}
	case Gentle:
		return content(gentleTitle, label)
	default:
		return content(controlTitle, label)
	}
}

func content(title, body string) model.ReminderContent {
	return model.ReminderContent{
		Title:    &title,
		Body:     &body,
		Priority: model.PriorityDefault,
	}
}

// ForGoal builds the reminder for a goal, labelled with its title.
func ForGoal(variant string, g model.Goal) model.ReminderContent {
	return BuildContent(variant, g.Title)
}

// Due reports whether a goal's reminder fires at now, to the minute. Goals
// without a reminder time, or inactive ones, are never due. An empty day set
// means every day.
func Due(g model.Goal, now time.Time) bool {
	if !g.Active || g.ReminderTime == "" {
		return false
	}
	if now.Format("15:04") != g.ReminderTime {
		return false
	}
	if len(g.ReminderDays) == 0 {
		return true
	}
	today := isoWeekday(now)
	for _, d := range g.ReminderDays {
		if d == today {
			return true
		}
	}
	return false
}

// isoWeekday returns 1 for Monday through 7 for Sunday.
func isoWeekday(t time.Time) int {
	if t.Weekday() == time.Sunday {
		return 7
	}
	return int(t.Weekday())
}

// Dispatch is one reminder a dispatcher should post.
type Dispatch struct {
	GoalID  string                `json:"goal_id"`
	Content model.ReminderContent `json:"content"`
}

// DueAt returns the reminders due at now for the given goals.
func DueAt(variant string, goals []model.Goal, now time.Time) []Dispatch {
	var out []Dispatch
	for _, g := range goals {
		if Due(g, now) {
			out = append(out, Dispatch{GoalID: g.ID, Content: ForGoal(variant, g)})
		}
	}
	return out
}
