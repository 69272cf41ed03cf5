package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/finance"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
)

type FinanceHandler struct {
	Reservations postgres.ReservationsRepo
	Baselines    finance.Baselines
}

func NewFinanceHandler(reservations postgres.ReservationsRepo) *FinanceHandler {
	return &FinanceHandler{Reservations: reservations, Baselines: finance.DefaultBaselines()}
}

func (h *FinanceHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequirePermission(domain.PermFinanceView)).Get("/report", h.report)
	return r
}

func (h *FinanceHandler) report(w http.ResponseWriter, r *http.Request) {
	monthly, err := h.Reservations.MonthlyRevenue(r.Context(), 6)
	if err != nil {
		response.InternalError(w, "failed to build financial report")
		return
	}
	sellers, err := h.Reservations.SellerSales(r.Context())
	if err != nil {
		response.InternalError(w, "failed to build financial report")
		return
	}

	in := finance.InputsFromAggregates(monthly, sellers, h.Baselines)
	response.WriteJSON(w, http.StatusOK, finance.BuildReport(in))
}
