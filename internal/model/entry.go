// Package model defines the core diary data types.
package model

import "time"

// Entry represents a diary entry.
type Entry struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	PlainContent string    `json:"plain_content,omitempty"`
	Mood         string    `json:"mood,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	WordCount    int       `json:"word_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Location     *Location `json:"location,omitempty"`
	Weather      *Weather  `json:"weather,omitempty"`
}

// Location is the optional place an entry was written at.
type Location struct {
	Name      string  `json:"name,omitempty"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Weather is the optional weather context attached to an entry.
type Weather struct {
	Condition string  `json:"condition"`
	TempC     float64 `json:"temp_c"`
}

// SearchRecord is the full-text index projection of an entry.
type SearchRecord struct {
	RowID   int64  `json:"rowid"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Tags    string `json:"tags"`
}

// ValidMoods are the mood tags the apps offer. Other values are kept as-is.
var ValidMoods = map[string]bool{
	"great":   true,
	"good":    true,
	"okay":    true,
	"bad":     true,
	"awful":   true,
	"anxious": true,
	"calm":    true,
}
