package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rcliao/daybook/internal/model"
	"github.com/rcliao/daybook/internal/reminder"
	"github.com/rcliao/daybook/internal/store"
)

type entryRequest struct {
	Title        *string         `json:"title"`
	Content      *string         `json:"content"`
	PlainContent *string         `json:"plain_content"`
	Mood         *string         `json:"mood"`
	Tags         []string        `json:"tags"`
	Location     *model.Location `json:"location"`
	Weather      *model.Weather  `json:"weather"`
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(deref(req.Title)) == "" && strings.TrimSpace(deref(req.Content)) == "" {
		writeError(w, http.StatusBadRequest, "title or content is required")
		return
	}

	res, err := s.diary.Create(r.Context(), store.CreateEntryParams{
		Title:        deref(req.Title),
		Content:      deref(req.Content),
		PlainContent: deref(req.PlainContent),
		Mood:         deref(req.Mood),
		Tags:         req.Tags,
		Location:     req.Location,
		Weather:      req.Weather,
	})
	if err != nil {
		s.writeStoreError(w, "create entry", err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	var req entryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	res, err := s.diary.Update(r.Context(), store.UpdateEntryParams{
		ID:           chi.URLParam(r, "id"),
		Title:        req.Title,
		Content:      req.Content,
		PlainContent: req.PlainContent,
		Mood:         req.Mood,
		Tags:         req.Tags,
		Location:     req.Location,
		Weather:      req.Weather,
	})
	if err != nil {
		s.writeStoreError(w, "update entry", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.diary.Delete(r.Context(), id); err != nil {
		s.writeStoreError(w, "delete entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.store.GetEntry(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, "get entry", err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	entries, err := s.store.ListEntries(r.Context(), store.ListEntriesParams{
		Mood:  q.Get("mood"),
		Tag:   q.Get("tag"),
		Limit: queryLimit(r, 20),
	})
	if err != nil {
		s.writeStoreError(w, "list entries", err)
		return
	}
	if entries == nil {
		entries = []model.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	results, err := s.store.SearchEntries(r.Context(), store.SearchParams{Query: query, Limit: queryLimit(r, 20)})
	if err != nil {
		s.writeStoreError(w, "search", err)
		return
	}
	if results == nil {
		results = []store.SearchResult{}
	}
	writeJSON(w, http.StatusOK, results)
}

type goalRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Frequency    string `json:"frequency"`
	ReminderTime string `json:"reminder_time"`
	ReminderDays []int  `json:"reminder_days"`
}

func (s *Server) createGoal(w http.ResponseWriter, r *http.Request) {
	var req goalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	g, err := s.store.CreateGoal(r.Context(), store.CreateGoalParams{
		Title:        req.Title,
		Description:  req.Description,
		Frequency:    req.Frequency,
		ReminderTime: req.ReminderTime,
		ReminderDays: req.ReminderDays,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, g)
}

func (s *Server) listGoals(w http.ResponseWriter, r *http.Request) {
	stats, err := s.tracker.AllStats(r.Context(), r.URL.Query().Get("all") != "true")
	if err != nil {
		s.writeStoreError(w, "list goals", err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) deleteGoal(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.DeleteGoal(r.Context(), id); err != nil {
		s.writeStoreError(w, "delete goal", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": id})
}

func (s *Server) goalStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.tracker.GoalStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, "goal stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type checkInRequest struct {
	Date      string `json:"date"`
	Completed *bool  `json:"completed"`
	Note      string `json:"note"`
}

func (s *Server) checkIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	goalID := chi.URLParam(r, "id")
	if _, err := s.store.GetGoal(r.Context(), goalID); err != nil {
		s.writeStoreError(w, "check in", err)
		return
	}
	if req.Date == "" {
		req.Date = s.tracker.Today()
	}
	completed := req.Completed == nil || *req.Completed

	c, err := s.store.UpsertCheckIn(r.Context(), store.CheckInParams{
		GoalID:    goalID,
		Date:      req.Date,
		Completed: completed,
		Note:      req.Note,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) writingProgress(w http.ResponseWriter, r *http.Request) {
	summary, ok, err := s.tracker.WritingGoalProgress(r.Context())
	if err != nil {
		s.writeStoreError(w, "writing progress", err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"progress": summary})
}

func (s *Server) variantParam(r *http.Request) string {
	if v := r.URL.Query().Get("variant"); v != "" {
		return v
	}
	return s.variant
}

func (s *Server) previewReminder(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, reminder.BuildContent(s.variantParam(r), r.URL.Query().Get("label")))
}

func (s *Server) dueReminders(w http.ResponseWriter, r *http.Request) {
	at := time.Now()
	if v := r.URL.Query().Get("at"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "at must be RFC 3339")
			return
		}
		at = t
	}
	active, err := s.store.ListGoals(r.Context(), true)
	if err != nil {
		s.writeStoreError(w, "due reminders", err)
		return
	}
	due := reminder.DueAt(s.variantParam(r), active, at)
	if due == nil {
		due = []reminder.Dispatch{}
	}
	writeJSON(w, http.StatusOK, due)
}
