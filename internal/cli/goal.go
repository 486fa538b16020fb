package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/rcliao/daybook/internal/store"
	"github.com/spf13/cobra"
)

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Track goals, check-ins and streaks",
}

func init() {
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a goal",
		Args:  cobra.MinimumNArgs(1),
		Run:   runGoalAdd,
	}
	add.Flags().String("desc", "", "Description")
	add.Flags().String("freq", "daily", "Frequency: daily, weekly, monthly")
	add.Flags().String("remind-at", "", "Reminder time (HH:MM)")
	add.Flags().String("remind-days", "", "Reminder days, ISO weekday numbers 1=Mon..7=Sun (comma-separated)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List goals with streaks and progress",
		Run:   runGoalList,
	}
	list.Flags().Bool("all", false, "Include paused goals")

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a goal and its check-ins",
		Args:  cobra.ExactArgs(1),
		Run:   runGoalRm,
	}

	pause := &cobra.Command{
		Use:   "pause <id>",
		Short: "Deactivate a goal",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setGoalActive(cmd, args[0], false) },
	}
	resume := &cobra.Command{
		Use:   "resume <id>",
		Short: "Reactivate a goal",
		Args:  cobra.ExactArgs(1),
		Run:   func(cmd *cobra.Command, args []string) { setGoalActive(cmd, args[0], true) },
	}

	checkin := &cobra.Command{
		Use:   "checkin <id>",
		Short: "Record a check-in (today unless --date)",
		Args:  cobra.ExactArgs(1),
		Run:   runGoalCheckIn,
	}
	checkin.Flags().String("date", "", "Date (YYYY-MM-DD)")
	checkin.Flags().String("note", "", "Note")
	checkin.Flags().Bool("missed", false, "Record as not completed")

	stats := &cobra.Command{
		Use:   "stats <id>",
		Short: "Show streak and progress for a goal",
		Args:  cobra.ExactArgs(1),
		Run:   runGoalStats,
	}

	writing := &cobra.Command{
		Use:   "writing",
		Short: "Show progress of the first writing goal",
		Run:   runGoalWriting,
	}

	goalCmd.AddCommand(add, list, rm, pause, resume, checkin, stats, writing)
	RootCmd.AddCommand(goalCmd)
}

func parseDays(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	var days []int
	for _, part := range strings.Split(s, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid day %q", part)
		}
		days = append(days, d)
	}
	return days, nil
}

func runGoalAdd(cmd *cobra.Command, args []string) {
	desc, _ := cmd.Flags().GetString("desc")
	freq, _ := cmd.Flags().GetString("freq")
	at, _ := cmd.Flags().GetString("remind-at")
	daysStr, _ := cmd.Flags().GetString("remind-days")

	days, err := parseDays(daysStr)
	if err != nil {
		exitErr("goal add", err)
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	g, err := s.CreateGoal(cmd.Context(), store.CreateGoalParams{
		Title:        strings.Join(args, " "),
		Description:  desc,
		Frequency:    freq,
		ReminderTime: at,
		ReminderDays: days,
	})
	if err != nil {
		exitErr("goal add", err)
	}
	printJSON(g)
}

func runGoalList(cmd *cobra.Command, args []string) {
	all, _ := cmd.Flags().GetBool("all")

	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	stats, err := a.tracker.AllStats(cmd.Context(), !all)
	if err != nil {
		exitErr("goal list", err)
	}
	printStats(stats)
}

func runGoalRm(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.DeleteGoal(cmd.Context(), args[0]); err != nil {
		exitErr("goal rm", err)
	}
	fmt.Printf(`{"ok":true,"id":%q}`+"\n", args[0])
}

func setGoalActive(cmd *cobra.Command, id string, active bool) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	if err := s.SetGoalActive(cmd.Context(), id, active); err != nil {
		exitErr("goal", err)
	}
	fmt.Printf(`{"ok":true,"id":%q,"active":%t}`+"\n", id, active)
}

func runGoalCheckIn(cmd *cobra.Command, args []string) {
	date, _ := cmd.Flags().GetString("date")
	note, _ := cmd.Flags().GetString("note")
	missed, _ := cmd.Flags().GetBool("missed")

	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	if _, err := a.store.GetGoal(cmd.Context(), args[0]); err != nil {
		exitErr("goal checkin", err)
	}
	if date == "" {
		date = a.tracker.Today()
	}
	c, err := a.store.UpsertCheckIn(cmd.Context(), store.CheckInParams{
		GoalID:    args[0],
		Date:      date,
		Completed: !missed,
		Note:      note,
	})
	if err != nil {
		exitErr("goal checkin", err)
	}
	printJSON(c)
}

func runGoalStats(cmd *cobra.Command, args []string) {
	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	st, err := a.tracker.GoalStats(cmd.Context(), args[0])
	if err != nil {
		exitErr("goal stats", err)
	}
	if textOutput() {
		fmt.Println(renderStats(*st))
		return
	}
	printJSON(st)
}

func runGoalWriting(cmd *cobra.Command, args []string) {
	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	summary, ok, err := a.tracker.WritingGoalProgress(cmd.Context())
	if err != nil {
		exitErr("goal writing", err)
	}
	fmt.Println(writingProgressLine(summary, ok))
}

func writingProgressLine(summary string, ok bool) string {
	if textOutput() {
		if !ok {
			return dimStyle.Render("no active writing goal")
		}
		return streakStyle.Render(summary)
	}
	if !ok {
		return `{"progress":null}`
	}
	b, _ := json.MarshalIndent(map[string]string{"progress": summary}, "", "  ")
	return string(b)
}
