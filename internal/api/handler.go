// Package api exposes the dashboard API and the run trigger over HTTP.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/uaplan/eventradar/internal/agent"
	"github.com/uaplan/eventradar/internal/model"
	"github.com/uaplan/eventradar/internal/store"
)

// EventLister is the read-side store surface the API needs.
type EventLister interface {
	List(ctx context.Context, f store.Filter) ([]model.StoredEvent, error)
	GetByID(ctx context.Context, id string) (model.StoredEvent, error)
}

// RunController triggers discovery runs and reports on the last one.
type RunController interface {
	Start(ctx context.Context) error
	Latest() *agent.Stats
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	events EventLister
	agent  RunController
	webDir string
}

// New creates the router with all routes registered. webDir is the
// static dashboard directory; empty disables it.
func New(events EventLister, ag RunController, webDir string) http.Handler {
	h := &Handler{events: events, agent: ag, webDir: webDir}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/events", h.listEvents)
		r.Get("/events/{id}", h.getEvent)
		r.Post("/runs", h.triggerRun)
		r.Get("/runs/latest", h.latestRun)
	})
	r.Get("/healthz", h.healthz)
	r.Handle("/metrics", promhttp.Handler())

	if webDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(webDir)))
	}
	return r
}

// GET /api/events — upcoming events, optionally filtered.
//
// Query parameters: category (Legislation|Housing|Recovery|General),
// from and to (YYYY-MM-DD), include_past (bool).
func (h *Handler) listEvents(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := store.Filter{
		IncludePast: q.Get("include_past") == "true",
	}
	if c := q.Get("category"); c != "" {
		f.Category = model.ParseCategory(c)
	}
	if s := q.Get("from"); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
			return
		}
		f.From = d
	}
	if s := q.Get("to"); s != "" {
		d, err := model.ParseDate(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
			return
		}
		f.To = d
	}

	events, err := h.events.List(r.Context(), f)
	if err != nil {
		slog.Error("list events failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}
	if events == nil {
		events = []model.StoredEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(events),
		"events": events,
	})
}

// GET /api/events/{id} — single event by id.
func (h *Handler) getEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ev, err := h.events.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "event not found")
			return
		}
		slog.Error("get event failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "failed to load event")
		return
	}
	writeJSON(w, http.StatusOK, ev)
}

// POST /api/runs — start a discovery run in the background. Returns 409
// when one is already active.
func (h *Handler) triggerRun(w http.ResponseWriter, r *http.Request) {
	// Detached from the request context; the run outlives it.
	if err := h.agent.Start(context.Background()); err != nil {
		if errors.Is(err, agent.ErrRunInProgress) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		slog.Error("run trigger failed", "err", err)
		writeError(w, http.StatusInternalServerError, "failed to start run")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{
		"run_id": uuid.New().String(),
		"status": "started",
	})
}

// GET /api/runs/latest — stats of the last completed run.
func (h *Handler) latestRun(w http.ResponseWriter, r *http.Request) {
	stats := h.agent.Latest()
	if stats == nil {
		writeError(w, http.StatusNotFound, "no run has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// GET /healthz — liveness probe.
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
