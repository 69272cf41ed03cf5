package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
)

type AuditHandler struct {
	Audit postgres.AuditRepo
}

func NewAuditHandler(auditRepo postgres.AuditRepo) *AuditHandler {
	return &AuditHandler{Audit: auditRepo}
}

func (h *AuditHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequirePermission(domain.PermAuditLogsView)).Get("/", h.list)
	return r
}

func (h *AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, offset := parsePagination(r)
	entries, err := h.Audit.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalError(w, "failed to list audit entries")
		return
	}
	response.WriteJSON(w, http.StatusOK, entries)
}
