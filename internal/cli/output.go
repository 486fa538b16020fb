package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcliao/daybook/internal/goals"
	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/store"
	"github.com/rcliao/daybook/internal/textmetrics"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C9CF5"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	streakStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F5A97F"))
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6DA95"))
)

func textOutput() bool {
	return strings.EqualFold(formatFlag, "text")
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func renderEntry(e model.Entry) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(orDefault(e.Title, "(untitled)")))
	b.WriteString(" " + dimStyle.Render(fmt.Sprintf("%s · %d words", e.CreatedAt.Local().Format("2006-01-02 15:04"), e.WordCount)))
	if e.Mood != "" {
		b.WriteString(" " + dimStyle.Render("· "+e.Mood))
	}
	if len(e.Tags) > 0 {
		b.WriteString(" " + tagStyle.Render("#"+strings.Join(e.Tags, " #")))
	}
	b.WriteString("\n  " + textmetrics.Preview(textmetrics.PlainContent(e.PlainContent, e.Content), 100))
	b.WriteString("\n  " + dimStyle.Render(e.ID))
	return b.String()
}

func printEntries(entries []model.Entry) {
	if !textOutput() {
		if entries == nil {
			entries = []model.Entry{}
		}
		printJSON(entries)
		return
	}
	for _, e := range entries {
		fmt.Println(renderEntry(e))
	}
}

func printSearchResults(results []store.SearchResult) {
	if !textOutput() {
		if results == nil {
			results = []store.SearchResult{}
		}
		printJSON(results)
		return
	}
	for _, r := range results {
		fmt.Println(renderEntry(r.Entry))
	}
}

func renderStats(st goals.Stats) string {
	return fmt.Sprintf("%s %s\n  %s  longest %d · %d%% this period · %d total\n  %s",
		titleStyle.Render(st.Title),
		dimStyle.Render("("+string(st.Frequency)+")"),
		streakStyle.Render(fmt.Sprintf("streak %d", st.CurrentStreak)),
		st.LongestStreak, st.Progress, st.TotalCompleted,
		dimStyle.Render(st.GoalID))
}

func printStats(stats []goals.Stats) {
	if !textOutput() {
		printJSON(stats)
		return
	}
	for _, st := range stats {
		fmt.Println(renderStats(st))
	}
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
