package cli

import (
	"os/signal"
	"syscall"

	"github.com/rcliao/daybook/internal/server"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		Run:   runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (default: $DAYBOOK_ADDR or 127.0.0.1:8080)")

	RootCmd.AddCommand(cmd)
}

func runServe(cmd *cobra.Command, args []string) {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = cfg.Addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		exitErr("open store", err)
	}
	defer a.Close()

	srv := server.New(a.store, a.diary, a.tracker, cfg.ReminderVariant, logger)
	if err := srv.ListenAndServe(ctx, addr); err != nil {
		exitErr("serve", err)
	}
}
