package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/floripafacil/backend/internal/experiments"
	"github.com/floripafacil/backend/internal/http/handlers"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/pkg/auth"
)

const testSecret = "test-secret-key-for-handler-tests"

// ---------- Mocks ----------

type mockPublisher struct {
	mu       sync.Mutex
	subjects []string
	payloads []any
}

func (m *mockPublisher) Publish(_ context.Context, subject string, data interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	m.payloads = append(m.payloads, data)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func (m *mockPublisher) published() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.subjects...)
}

// ---------- Helpers ----------

func newExperimentsRouter(t *testing.T) (chi.Router, *experiments.Tracker, *mockPublisher) {
	t.Helper()
	tracker := experiments.NewTracker(experiments.NewMemoryAssignmentStore())
	bus := &mockPublisher{}
	h := handlers.NewExperimentsHandler(tracker, bus)

	r := chi.NewRouter()
	r.Mount("/api/experiments", h.PublicRoutes())
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(testSecret))
		r.Mount("/api/admin/experiments", h.AdminRoutes())
	})
	return r, tracker, bus
}

func staffToken(t *testing.T, role string, perms []string) string {
	t.Helper()
	tok, err := auth.NewSessionToken(7, "staff@floripafacil.com", "Staff", role, perms, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return tok
}

type assignRes struct {
	VisitorID string `json:"visitor_id"`
	Variant   string `json:"variant"`
}

func postAssign(t *testing.T, r chi.Router, visitorID string) (assignRes, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/experiments/assign", nil)
	if visitorID != "" {
		req.Header.Set("X-Visitor-ID", visitorID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var out assignRes
	if rec.Code == http.StatusOK {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("failed to decode assign response: %v", err)
		}
	}
	return out, rec
}

// ---------- Tests ----------

func TestAssignMintsVisitorIDAndSetsCookie(t *testing.T) {
	r, _, _ := newExperimentsRouter(t)

	out, rec := postAssign(t, r, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if out.VisitorID == "" {
		t.Error("expected a minted visitor id")
	}
	if out.Variant != "A" && out.Variant != "B" {
		t.Errorf("variant = %q, want A or B", out.Variant)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "ff_visitor_id" && c.Value == out.VisitorID {
			found = true
		}
	}
	if !found {
		t.Error("expected ff_visitor_id cookie carrying the minted id")
	}
}

func TestAssignIsStablePerVisitor(t *testing.T) {
	r, _, _ := newExperimentsRouter(t)

	first, _ := postAssign(t, r, "visitor-123")
	for i := 0; i < 20; i++ {
		again, _ := postAssign(t, r, "visitor-123")
		if again.Variant != first.Variant {
			t.Fatalf("assignment flipped from %q to %q on call %d", first.Variant, again.Variant, i)
		}
	}
}

func TestTrackRecordsCounterAndPublishes(t *testing.T) {
	r, tracker, bus := newExperimentsRouter(t)

	assigned, _ := postAssign(t, r, "visitor-track")

	body := bytes.NewBufferString(`{"kind":"ctaClicks"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/experiments/track", body)
	req.Header.Set("X-Visitor-ID", "visitor-track")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", rec.Code)
	}

	a, b := tracker.Metrics()
	total := a.CTAClicks + b.CTAClicks
	if total != 1 {
		t.Errorf("ctaClicks total = %d, want 1", total)
	}
	switch assigned.Variant {
	case "A":
		if a.CTAClicks != 1 {
			t.Errorf("click landed on B, visitor assigned to A")
		}
	case "B":
		if b.CTAClicks != 1 {
			t.Errorf("click landed on A, visitor assigned to B")
		}
	}

	subjects := bus.published()
	if len(subjects) != 1 || subjects[0] != "funnel.event.recorded" {
		t.Errorf("published subjects = %v, want [funnel.event.recorded]", subjects)
	}
}

func TestTrackRejectsUnknownKind(t *testing.T) {
	r, tracker, _ := newExperimentsRouter(t)

	body := bytes.NewBufferString(`{"kind":"pageviews"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/experiments/track", body)
	req.Header.Set("X-Visitor-ID", "visitor-bad")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	a, b := tracker.Metrics()
	if a.Views+b.Views+a.CTAClicks+b.CTAClicks != 0 {
		t.Error("rejected event must not touch counters")
	}
}

func TestReportRequiresGlobalStatsGrant(t *testing.T) {
	r, tracker, _ := newExperimentsRouter(t)
	tracker.Seed(
		experiments.Metrics{Views: 2450, CTAClicks: 320, WhatsAppStarts: 150, Reservations: 25},
		experiments.Metrics{Views: 2380, CTAClicks: 580, WhatsAppStarts: 290, Reservations: 48},
	)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/experiments/report", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous report: status = %d, want 401", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/experiments/report", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken(t, "VENDOR", []string{"dashboard.view"}))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("vendor report: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/experiments/report", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken(t, "ADMIN", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin report: status = %d, want 200", rec.Code)
	}

	var rep experiments.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("failed to decode report: %v", err)
	}
	if rep.Winner != experiments.WinnerB {
		t.Errorf("winner = %q, want B", rep.Winner)
	}
	if rep.TotalVisitors != 4830 {
		t.Errorf("totalVisitors = %d, want 4830", rep.TotalVisitors)
	}
}

func TestResetRequiresOwner(t *testing.T) {
	r, tracker, _ := newExperimentsRouter(t)
	tracker.Seed(experiments.Metrics{Views: 10}, experiments.Metrics{Views: 12})

	req := httptest.NewRequest(http.MethodPost, "/api/admin/experiments/reset", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken(t, "ADMIN", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin reset: status = %d, want 403", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/admin/experiments/reset", nil)
	req.Header.Set("Authorization", "Bearer "+staffToken(t, "OWNER", nil))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("owner reset: status = %d, want 200", rec.Code)
	}

	a, b := tracker.Metrics()
	if a.Views != 0 || b.Views != 0 {
		t.Errorf("counters after reset: A.views=%d B.views=%d, want 0/0", a.Views, b.Views)
	}
}
