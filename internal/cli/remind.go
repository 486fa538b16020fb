package cli

import (
	"fmt"
	"time"

	"github.com/rcliao/daybook/internal/reminder"
	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Preview and list goal reminders",
}

func init() {
	preview := &cobra.Command{
		Use:   "preview [label]",
		Short: "Show the notification content for a variant",
		Args:  cobra.MaximumNArgs(1),
		Run:   runRemindPreview,
	}
	preview.Flags().String("variant", "", "control, gentle or silent (default: $DAYBOOK_REMINDER_VARIANT)")

	due := &cobra.Command{
		Use:   "due",
		Short: "List reminders due at a minute",
		Run:   runRemindDue,
	}
	due.Flags().String("variant", "", "control, gentle or silent (default: $DAYBOOK_REMINDER_VARIANT)")
	due.Flags().String("at", "", "RFC 3339 time (default: now)")

	remindCmd.AddCommand(preview, due)
	RootCmd.AddCommand(remindCmd)
}

func variantFlag(cmd *cobra.Command) string {
	if v, _ := cmd.Flags().GetString("variant"); v != "" {
		return v
	}
	return cfg.ReminderVariant
}

func runRemindPreview(cmd *cobra.Command, args []string) {
	label := "Daily reminder"
	if len(args) > 0 {
		label = args[0]
	}
	printJSON(reminder.BuildContent(variantFlag(cmd), label))
}

func runRemindDue(cmd *cobra.Command, args []string) {
	atStr, _ := cmd.Flags().GetString("at")
	at := time.Now()
	if atStr != "" {
		t, err := time.Parse(time.RFC3339, atStr)
		if err != nil {
			exitErr("remind due", fmt.Errorf("--at must be RFC 3339: %w", err))
		}
		at = t
	}

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	active, err := s.ListGoals(cmd.Context(), true)
	if err != nil {
		exitErr("remind due", err)
	}
	due := reminder.DueAt(variantFlag(cmd), active, at)
	if due == nil {
		due = []reminder.Dispatch{}
	}
	printJSON(due)
}
