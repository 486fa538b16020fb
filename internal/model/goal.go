package model

import (
	"strings"
	"time"
)

// Frequency is how often a goal is meant to be completed.
type Frequency string

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
)

// ParseFrequency maps s onto a known frequency. Anything unrecognized is daily.
func ParseFrequency(s string) Frequency {
	switch Frequency(strings.ToLower(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly
	case Monthly:
		return Monthly
	default:
		return Daily
	}
}

// DateLayout is the storage format of check-in dates.
const DateLayout = "2006-01-02"

// Goal represents a tracked goal.
type Goal struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Frequency    Frequency `json:"frequency"`
	ReminderTime string    `json:"reminder_time,omitempty"` // HH:MM
	ReminderDays []int     `json:"reminder_days,omitempty"` // 1=Mon .. 7=Sun
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CheckIn records that a goal was satisfied on a calendar date.
type CheckIn struct {
	ID        string    `json:"id"`
	GoalID    string    `json:"goal_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	Completed bool      `json:"completed"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Priority is the delivery priority of a reminder notification.
type Priority string

const (
	PriorityDefault Priority = "default"
	PriorityLow     Priority = "low"
)

// ReminderContent is the payload handed to the notification dispatcher.
// Title and Body are nil for silent reminders.
type ReminderContent struct {
	Title    *string  `json:"title"`
	Body     *string  `json:"body"`
	Silent   bool     `json:"silent"`
	Priority Priority `json:"priority"`
}
