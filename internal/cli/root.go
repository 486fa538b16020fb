// Package cli implements the daybook CLI commands.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rcliao/daybook/internal/config"
	"github.com/rcliao/daybook/internal/diary"
	"github.com/rcliao/daybook/internal/goals"
	"github.com/rcliao/daybook/internal/store"
	"github.com/rcliao/daybook/internal/weather"
	"github.com/spf13/cobra"
)

var (
	dbPath     string
	formatFlag string
	cfg        *config.Config
	logger     *slog.Logger
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "A diary with goals, streaks and search",
	Long:  "Journal entries with moods and tags, full-text search, and goals with streaks. SQLite-backed, single binary.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		logger = cfg.NewLogger()
		slog.SetDefault(logger)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $DAYBOOK_DB or ~/.daybook/daybook.db)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
}

func getDBPath() string {
	if dbPath != "" {
		return dbPath
	}
	return cfg.DBPath
}

func openStore() (*store.SQLiteStore, error) {
	return store.NewSQLiteStore(getDBPath())
}

// app bundles the services a command needs.
type app struct {
	store   *store.SQLiteStore
	tracker *goals.Tracker
	diary   *diary.Service
	closers []func() error
}

func openApp(ctx context.Context) (*app, error) {
	s, err := openStore()
	if err != nil {
		return nil, err
	}
	a := &app{store: s, closers: []func() error{s.Close}}

	var cache weather.Cache
	if cfg.RedisURI != "" {
		rc, err := weather.NewRedisCache(ctx, cfg.RedisURI)
		if err != nil {
			logger.Warn("redis unavailable, using in-process weather cache", "err", err)
		} else {
			cache = rc
			a.closers = append(a.closers, rc.Close)
		}
	}

	a.tracker = goals.NewTracker(s, nil, logger)
	a.diary = diary.NewService(s, a.tracker, weather.NewService(nil, cache, cfg.WeatherTTL, logger), logger)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
