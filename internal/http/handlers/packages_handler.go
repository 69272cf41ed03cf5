package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/internal/utils"
)

type PackagesHandler struct {
	Packages postgres.PackagesRepo
	Audit    postgres.AuditRepo
}

func NewPackagesHandler(packages postgres.PackagesRepo, auditRepo postgres.AuditRepo) *PackagesHandler {
	return &PackagesHandler{Packages: packages, Audit: auditRepo}
}

// PublicRoutes serves the landing page catalog: active packages only.
func (h *PackagesHandler) PublicRoutes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.listActive)
	r.Get("/{id}", h.get)
	return r
}

// AdminRoutes is mounted behind RequireAuth.
func (h *PackagesHandler) AdminRoutes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequirePermission(domain.PermPackagesView)).Get("/", h.listAll)
	r.With(middleware.RequirePermission(domain.PermPackagesCreate)).Post("/", h.create)
	r.With(middleware.RequirePermission(domain.PermPackagesEdit)).Put("/{id}", h.update)
	r.With(middleware.RequirePermission(domain.PermPackagesDelete)).Delete("/{id}", h.delete)
	return r
}

func (h *PackagesHandler) listActive(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.Packages.ListActive(r.Context())
	if err != nil {
		response.InternalError(w, "failed to list packages")
		return
	}
	response.WriteJSON(w, http.StatusOK, pkgs)
}

func (h *PackagesHandler) listAll(w http.ResponseWriter, r *http.Request) {
	pkgs, err := h.Packages.ListAll(r.Context())
	if err != nil {
		response.InternalError(w, "failed to list packages")
		return
	}
	response.WriteJSON(w, http.StatusOK, pkgs)
}

func (h *PackagesHandler) get(w http.ResponseWriter, r *http.Request) {
	pkg, err := h.Packages.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(w, "package not found")
			return
		}
		response.InternalError(w, "failed to load package")
		return
	}
	if !pkg.IsActive {
		response.NotFound(w, "package not found")
		return
	}
	response.WriteJSON(w, http.StatusOK, pkg)
}

func validatePackageReq(req *domain.PackageUpsertReq) string {
	switch {
	case req.Title == "":
		return "title is required"
	case req.PriceUSD <= 0:
		return "price must be positive"
	default:
		return ""
	}
}

func (h *PackagesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.PackageUpsertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if msg := validatePackageReq(&req); msg != "" {
		response.BadRequest(w, msg)
		return
	}
	if req.ID == "" {
		req.ID = utils.Slugify(req.Title)
	}

	pkg, err := h.Packages.Upsert(r.Context(), &req)
	if err != nil {
		response.InternalError(w, "failed to save package")
		return
	}

	audit(r.Context(), h.Audit, middleware.Principal(r), "SAVE_PACKAGE", "package",
		fmt.Sprintf("%s ($%d)", pkg.Title, pkg.PriceUSD))
	response.WriteJSON(w, http.StatusCreated, pkg)
}

func (h *PackagesHandler) update(w http.ResponseWriter, r *http.Request) {
	var req domain.PackageUpsertReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	req.ID = chi.URLParam(r, "id")
	if msg := validatePackageReq(&req); msg != "" {
		response.BadRequest(w, msg)
		return
	}

	pkg, err := h.Packages.Upsert(r.Context(), &req)
	if err != nil {
		response.InternalError(w, "failed to save package")
		return
	}

	audit(r.Context(), h.Audit, middleware.Principal(r), "SAVE_PACKAGE", "package",
		fmt.Sprintf("%s ($%d)", pkg.Title, pkg.PriceUSD))
	response.WriteJSON(w, http.StatusOK, pkg)
}

func (h *PackagesHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	deleted, err := h.Packages.Delete(r.Context(), id)
	if err != nil {
		response.InternalError(w, "failed to delete package")
		return
	}
	if !deleted {
		response.NotFound(w, "package not found")
		return
	}

	audit(r.Context(), h.Audit, middleware.Principal(r), "DELETE_PACKAGE", "package", id)
	w.WriteHeader(http.StatusNoContent)
}
