// Package server exposes the diary over a JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rcliao/daybook/internal/diary"
	"github.com/rcliao/daybook/internal/goals"
	"github.com/rcliao/daybook/internal/store"
)

// Server wires HTTP routes to the diary services.
type Server struct {
	store   store.Store
	diary   *diary.Service
	tracker *goals.Tracker
	variant string
	log     *slog.Logger
}

// New returns a Server. variant is the default reminder experiment arm.
func New(s store.Store, d *diary.Service, t *goals.Tracker, variant string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{store: s, diary: d, tracker: t, variant: variant, log: logger}
}

// Routes returns the API router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/entries", func(r chi.Router) {
		r.Post("/", s.createEntry)
		r.Get("/", s.listEntries)
		r.Get("/{id}", s.getEntry)
		r.Put("/{id}", s.updateEntry)
		r.Delete("/{id}", s.deleteEntry)
	})
	r.Get("/api/search", s.search)

	r.Route("/api/goals", func(r chi.Router) {
		r.Post("/", s.createGoal)
		r.Get("/", s.listGoals)
		r.Get("/writing", s.writingProgress)
		r.Get("/{id}/stats", s.goalStats)
		r.Post("/{id}/checkins", s.checkIn)
		r.Delete("/{id}", s.deleteGoal)
	})

	r.Get("/api/reminders/preview", s.previewReminder)
	r.Get("/api/reminders/due", s.dueReminders)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start))
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store errors onto status codes.
func (s *Server) writeStoreError(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error(op, "err", err)
	writeError(w, http.StatusInternalServerError, op+" failed")
}

func queryLimit(r *http.Request, def int) int {
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		return v
	}
	return def
}
