package cli

import (
	"context"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/rcliao/daybook/internal/config"
	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/store"
)

func TestParseDays(t *testing.T) {
	days, err := parseDays("1, 3,5")
	if err != nil {
		t.Fatalf("parseDays: %v", err)
	}
	if !reflect.DeepEqual(days, []int{1, 3, 5}) {
		t.Errorf("unexpected days %v", days)
	}

	if days, err := parseDays(""); err != nil || days != nil {
		t.Errorf("expected nil for empty input, got %v %v", days, err)
	}
	if _, err := parseDays("mon"); err == nil {
		t.Error("expected error for non-numeric day")
	}
}

func TestSplitTags(t *testing.T) {
	if got := splitTags(""); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
	if got := splitTags("a,b"); len(got) != 2 {
		t.Errorf("expected 2 tags, got %v", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"entry", "goal", "remind", "serve", "stats", "export", "import"}
	for _, name := range want {
		cmd, _, err := RootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestOpenAppRemembersWeather(t *testing.T) {
	cfg = &config.Config{DBPath: filepath.Join(t.TempDir(), "daybook.db")}
	logger = slog.Default()
	t.Cleanup(func() { cfg, logger = nil, nil })

	ctx := context.Background()
	a, err := openApp(ctx)
	if err != nil {
		t.Fatalf("openApp: %v", err)
	}
	defer a.Close()

	here := &model.Location{Name: "London", Latitude: 51.5, Longitude: -0.12}
	if _, err := a.diary.Create(ctx, store.CreateEntryParams{
		Title:    "a",
		Location: here,
		Weather:  &model.Weather{Condition: "rain", TempC: 9},
	}); err != nil {
		t.Fatal(err)
	}
	res, err := a.diary.Create(ctx, store.CreateEntryParams{Title: "b", Location: here})
	if err != nil {
		t.Fatal(err)
	}
	if res.Entry.Weather == nil || res.Entry.Weather.Condition != "rain" {
		t.Errorf("expected second entry to reuse weather, got %+v", res.Entry.Weather)
	}
}

func TestWritingProgressLine(t *testing.T) {
	t.Cleanup(func() { formatFlag = "json" })

	formatFlag = "text"
	if got := writingProgressLine("", false); strings.Contains(got, "{") || !strings.Contains(got, "no active writing goal") {
		t.Errorf("expected plain text without a goal, got %q", got)
	}
	if got := writingProgressLine("3/7 this week", true); !strings.Contains(got, "3/7 this week") {
		t.Errorf("expected summary, got %q", got)
	}

	formatFlag = "json"
	if got := writingProgressLine("", false); got != `{"progress":null}` {
		t.Errorf("unexpected json %q", got)
	}
	if got := writingProgressLine("2 entries this month", true); !strings.Contains(got, `"progress": "2 entries this month"`) {
		t.Errorf("unexpected json %q", got)
	}
}
