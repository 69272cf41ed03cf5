package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/experiments"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/pkg/events"
	"github.com/floripafacil/backend/pkg/logger"
)

const visitorCookie = "ff_visitor_id"

type ExperimentsHandler struct {
	Tracker *experiments.Tracker
	Bus     events.Publisher
}

func NewExperimentsHandler(tracker *experiments.Tracker, bus events.Publisher) *ExperimentsHandler {
	return &ExperimentsHandler{Tracker: tracker, Bus: bus}
}

// PublicRoutes serves the landing page instrumentation.
func (h *ExperimentsHandler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/assign", h.assign)
	r.Post("/track", h.track)
	return r
}

// AdminRoutes is mounted behind RequireAuth.
func (h *ExperimentsHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequirePermission(domain.PermStatsGlobalView)).Get("/report", h.report)
	r.With(middleware.RequirePermission(domain.PermOwnerAccess)).Post("/reset", h.reset)
	return r
}

// visitorID resolves the caller's identity: explicit header first, then the
// cookie, otherwise a fresh UUID. Returns whether the id was newly minted.
func visitorID(r *http.Request) (string, bool) {
	if id := r.Header.Get("X-Visitor-ID"); id != "" {
		return id, false
	}
	if c, err := r.Cookie(visitorCookie); err == nil && c.Value != "" {
		return c.Value, false
	}
	return uuid.NewString(), true
}

func setVisitorCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *ExperimentsHandler) assign(w http.ResponseWriter, r *http.Request) {
	id, minted := visitorID(r)
	ctx := context.WithValue(r.Context(), logger.VisitorIDKey, id)
	variant := h.Tracker.Assign(ctx, id)
	if minted {
		setVisitorCookie(w, id)
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{
		"visitor_id": id,
		"variant":    string(variant),
	})
}

func (h *ExperimentsHandler) track(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	kind, ok := experiments.ParseEventKind(in.Kind)
	if !ok {
		response.BadRequest(w, "unknown event kind")
		return
	}

	id, minted := visitorID(r)
	ctx := context.WithValue(r.Context(), logger.VisitorIDKey, id)
	variant := h.Tracker.Assign(ctx, id)
	h.Tracker.Record(variant, kind)
	if minted {
		setVisitorCookie(w, id)
	}

	if h.Bus != nil {
		err := h.Bus.Publish(ctx, events.FunnelEventRecorded, events.FunnelEventRecordedEvent{
			Variant:    string(variant),
			Kind:       string(kind),
			VisitorID:  id,
			RecordedAt: time.Now(),
		})
		if err != nil {
			logger.ErrorContext(ctx, "failed to publish funnel event", "error", err)
		}
	}

	response.WriteJSON(w, http.StatusAccepted, map[string]string{
		"visitor_id": id,
		"variant":    string(variant),
	})
}

func (h *ExperimentsHandler) report(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, h.Tracker.Report())
}

func (h *ExperimentsHandler) reset(w http.ResponseWriter, r *http.Request) {
	h.Tracker.Reset()
	logger.InfoContext(r.Context(), "experiment counters reset")
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "counters reset"})
}
