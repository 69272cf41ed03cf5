package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
)

type DashboardHandler struct {
	Reservations postgres.ReservationsRepo
	Audit        postgres.AuditRepo
}

func NewDashboardHandler(reservations postgres.ReservationsRepo, auditRepo postgres.AuditRepo) *DashboardHandler {
	return &DashboardHandler{Reservations: reservations, Audit: auditRepo}
}

func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequirePermission(domain.PermDashboardView)).Get("/stats", h.stats)
	return r
}

type globalStats struct {
	Scope          string                  `json:"scope"`
	TotalSales     int                     `json:"total_sales"`
	TotalRevenue   int                     `json:"total_revenue_usd"`
	SellerRanking  []domain.SellerSales    `json:"seller_ranking"`
	MonthlyRevenue []domain.MonthlyRevenue `json:"monthly_revenue"`
	RecentActivity []domain.AuditEntry     `json:"recent_activity,omitempty"`
}

type personalStats struct {
	Scope      string `json:"scope"`
	Sales      int    `json:"sales"`
	RevenueUSD int    `json:"revenue_usd"`
}

// stats is role-scoped: the global grant sees everything, the personal grant
// sees only the caller's own numbers.
func (h *DashboardHandler) stats(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r)

	switch {
	case domain.Can(p, domain.PermStatsGlobalView):
		h.global(w, r)
	case domain.Can(p, domain.PermStatsPersonalView):
		h.personal(w, r, p)
	default:
		response.Forbidden(w, "insufficient permissions")
	}
}

func (h *DashboardHandler) global(w http.ResponseWriter, r *http.Request) {
	count, revenue, err := h.Reservations.GlobalSales(r.Context())
	if err != nil {
		response.InternalError(w, "failed to load dashboard stats")
		return
	}
	ranking, err := h.Reservations.SellerSales(r.Context())
	if err != nil {
		response.InternalError(w, "failed to load dashboard stats")
		return
	}
	monthly, err := h.Reservations.MonthlyRevenue(r.Context(), 6)
	if err != nil {
		response.InternalError(w, "failed to load dashboard stats")
		return
	}

	out := globalStats{
		Scope:          "global",
		TotalSales:     count,
		TotalRevenue:   revenue,
		SellerRanking:  ranking,
		MonthlyRevenue: monthly,
	}
	if domain.Can(middleware.Principal(r), domain.PermAuditLogsView) {
		if recent, err := h.Audit.List(r.Context(), 10, 0); err == nil {
			out.RecentActivity = recent
		}
	}

	response.WriteJSON(w, http.StatusOK, out)
}

func (h *DashboardHandler) personal(w http.ResponseWriter, r *http.Request, p *domain.Principal) {
	count, revenue, err := h.Reservations.SalesForSeller(r.Context(), p.UserID)
	if err != nil {
		response.InternalError(w, "failed to load dashboard stats")
		return
	}

	response.WriteJSON(w, http.StatusOK, personalStats{
		Scope:      "personal",
		Sales:      count,
		RevenueUSD: revenue,
	})
}
