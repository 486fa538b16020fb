package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rcliao/daybook/internal/diary"
	"github.com/rcliao/daybook/internal/goals"
	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/store"
)

var now = time.Date(2026, time.March, 12, 20, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	tracker := goals.NewTracker(s, func() time.Time { return now }, nil)
	srv := New(s, diary.NewService(s, tracker, nil, nil), tracker, "control", nil)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func TestEntryLifecycle(t *testing.T) {
	ts := newTestServer(t)

	var goal model.Goal
	if code := do(t, "POST", ts.URL+"/api/goals", map[string]any{"title": "Write daily"}, &goal); code != http.StatusCreated {
		t.Fatalf("create goal: status %d", code)
	}

	var created diary.SaveResult
	code := do(t, "POST", ts.URL+"/api/entries", map[string]any{
		"title":   "First",
		"content": "<p>hello   brave new world</p>",
		"tags":    []string{"intro"},
	}, &created)
	if code != http.StatusCreated {
		t.Fatalf("create entry: status %d", code)
	}
	if created.Entry.WordCount != 4 {
		t.Errorf("expected 4 words, got %d", created.Entry.WordCount)
	}
	if len(created.CheckedIn) != 1 || created.CheckedIn[0] != goal.ID {
		t.Errorf("expected writing goal checked in, got %v", created.CheckedIn)
	}

	var results []store.SearchResult
	do(t, "GET", ts.URL+"/api/search?q=brave", nil, &results)
	if len(results) != 1 {
		t.Fatalf("expected 1 search result, got %d", len(results))
	}

	var updated diary.SaveResult
	code = do(t, "PUT", ts.URL+"/api/entries/"+created.Entry.ID, map[string]any{"content": "goodbye"}, &updated)
	if code != http.StatusOK || updated.Entry.Title != "First" || updated.Entry.WordCount != 1 {
		t.Errorf("update: status %d entry %+v", code, updated.Entry)
	}

	results = nil
	do(t, "GET", ts.URL+"/api/search?q=brave", nil, &results)
	if len(results) != 0 {
		t.Errorf("expected stale content gone from search, got %d", len(results))
	}

	if code := do(t, "DELETE", ts.URL+"/api/entries/"+created.Entry.ID, nil, nil); code != http.StatusOK {
		t.Errorf("delete: status %d", code)
	}
	if code := do(t, "GET", ts.URL+"/api/entries/"+created.Entry.ID, nil, nil); code != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", code)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	ts := newTestServer(t)

	if code := do(t, "POST", ts.URL+"/api/entries", map[string]any{"mood": "good"}, nil); code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", code)
	}
	if code := do(t, "GET", ts.URL+"/api/search", nil, nil); code != http.StatusBadRequest {
		t.Errorf("expected 400 without q, got %d", code)
	}
}

func TestGoalStatsAndCheckIn(t *testing.T) {
	ts := newTestServer(t)

	var goal model.Goal
	do(t, "POST", ts.URL+"/api/goals", map[string]any{"title": "Run", "frequency": "daily"}, &goal)

	for _, d := range []string{"2026-03-10", "2026-03-11", ""} {
		if code := do(t, "POST", ts.URL+"/api/goals/"+goal.ID+"/checkins", map[string]any{"date": d}, nil); code != http.StatusOK {
			t.Fatalf("check in %q: status %d", d, code)
		}
	}

	var st goals.Stats
	if code := do(t, "GET", ts.URL+"/api/goals/"+goal.ID+"/stats", nil, &st); code != http.StatusOK {
		t.Fatalf("stats: status %d", code)
	}
	if st.CurrentStreak != 3 || st.Progress != 43 {
		t.Errorf("unexpected stats %+v", st)
	}

	if code := do(t, "GET", ts.URL+"/api/goals/missing/stats", nil, nil); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
	if code := do(t, "POST", ts.URL+"/api/goals/missing/checkins", map[string]any{}, nil); code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", code)
	}
}

func TestWritingProgressEndpoint(t *testing.T) {
	ts := newTestServer(t)

	if code := do(t, "GET", ts.URL+"/api/goals/writing", nil, nil); code != http.StatusNoContent {
		t.Errorf("expected 204 without writing goals, got %d", code)
	}

	do(t, "POST", ts.URL+"/api/goals", map[string]any{"title": "Journal"}, nil)
	do(t, "POST", ts.URL+"/api/entries", map[string]any{"title": "t", "content": "c"}, nil)

	var out map[string]string
	if code := do(t, "GET", ts.URL+"/api/goals/writing", nil, &out); code != http.StatusOK {
		t.Fatalf("status %d", code)
	}
	if out["progress"] != "1/7 this week" {
		t.Errorf("unexpected progress %q", out["progress"])
	}
}

func TestReminderPreview(t *testing.T) {
	ts := newTestServer(t)

	var c model.ReminderContent
	do(t, "GET", ts.URL+"/api/reminders/preview?variant=silent&label=x", nil, &c)
	if !c.Silent || c.Title != nil || c.Priority != model.PriorityLow {
		t.Errorf("unexpected silent content %+v", c)
	}

	c = model.ReminderContent{}
	do(t, "GET", ts.URL+"/api/reminders/preview?label=Daily+reminder", nil, &c)
	if c.Title == nil || *c.Title != "Time to write" || *c.Body != "Daily reminder" {
		t.Errorf("unexpected default content %+v", c)
	}
}

func TestDueReminders(t *testing.T) {
	ts := newTestServer(t)

	do(t, "POST", ts.URL+"/api/goals", map[string]any{"title": "Write", "reminder_time": "21:30"}, nil)
	do(t, "POST", ts.URL+"/api/goals", map[string]any{"title": "Run", "reminder_time": "07:00"}, nil)

	var due []map[string]any
	code := do(t, "GET", ts.URL+"/api/reminders/due?variant=gentle&at=2026-03-12T21:30:00Z", nil, &due)
	if code != http.StatusOK || len(due) != 1 {
		t.Errorf("expected 1 due reminder, got %d (status %d)", len(due), code)
	}
}
