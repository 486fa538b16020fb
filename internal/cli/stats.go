package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if textOutput() {
		fmt.Println(titleStyle.Render("daybook") + " " + dimStyle.Render(stats.DBPath))
		fmt.Printf("  %d entries · %d words · %d indexed\n", stats.TotalEntries, stats.TotalWords, stats.IndexedEntries)
		fmt.Printf("  %d goals (%d active) · %d check-ins\n", stats.TotalGoals, stats.ActiveGoals, stats.TotalCheckIns)
		return
	}
	printJSON(stats)
}
