package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/internal/utils"
)

type DestinationsHandler struct {
	Destinations postgres.DestinationsRepo
	Audit        postgres.AuditRepo
}

func NewDestinationsHandler(destinations postgres.DestinationsRepo, auditRepo postgres.AuditRepo) *DestinationsHandler {
	return &DestinationsHandler{Destinations: destinations, Audit: auditRepo}
}

func (h *DestinationsHandler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	return r
}

func (h *DestinationsHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequirePermission(domain.PermDestinationsManage))
	r.Post("/", h.save)
	r.Put("/{id}", h.save)
	r.Delete("/{id}", h.delete)
	return r
}

func (h *DestinationsHandler) list(w http.ResponseWriter, r *http.Request) {
	ds, err := h.Destinations.List(r.Context())
	if err != nil {
		response.InternalError(w, "failed to list destinations")
		return
	}
	response.WriteJSON(w, http.StatusOK, ds)
}

func (h *DestinationsHandler) get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Destinations.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(w, "destination not found")
			return
		}
		response.InternalError(w, "failed to load destination")
		return
	}
	response.WriteJSON(w, http.StatusOK, d)
}

func (h *DestinationsHandler) save(w http.ResponseWriter, r *http.Request) {
	var req domain.DestinationUpsertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if id := chi.URLParam(r, "id"); id != "" {
		req.ID = id
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}
	if req.ID == "" {
		req.ID = utils.Slugify(req.Name)
	}

	d, err := h.Destinations.Upsert(r.Context(), &req)
	if err != nil {
		response.InternalError(w, "failed to save destination")
		return
	}

	audit(r.Context(), h.Audit, middleware.Principal(r), "SAVE_DESTINATION", "destination", d.Name)
	response.WriteJSON(w, http.StatusOK, d)
}

func (h *DestinationsHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.Destinations.Delete(r.Context(), id)
	if err != nil {
		response.InternalError(w, "failed to delete destination")
		return
	}
	if !deleted {
		response.NotFound(w, "destination not found")
		return
	}

	audit(r.Context(), h.Audit, middleware.Principal(r), "DELETE_DESTINATION", "destination", id)
	w.WriteHeader(http.StatusNoContent)
}
