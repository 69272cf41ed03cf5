package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/internal/utils"
	"github.com/floripafacil/backend/pkg/events"
	"github.com/floripafacil/backend/pkg/logger"
)

type UsersHandler struct {
	Users postgres.UsersRepo
	Audit postgres.AuditRepo
	Bus   events.Publisher
}

func NewUsersHandler(users postgres.UsersRepo, auditRepo postgres.AuditRepo, bus events.Publisher) *UsersHandler {
	return &UsersHandler{Users: users, Audit: auditRepo, Bus: bus}
}

func (h *UsersHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.RequirePermission(domain.PermUsersView)).Get("/", h.list)
	r.With(middleware.RequirePermission(domain.PermUsersManage)).Post("/", h.create)
	r.With(middleware.RequirePermission(domain.PermUsersManage)).Patch("/{id}", h.update)
	return r
}

func (h *UsersHandler) list(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.List(r.Context())
	if err != nil {
		response.InternalError(w, "failed to list users")
		return
	}

	payloads := make([]userPayload, 0, len(users))
	for i := range users {
		payloads = append(payloads, toUserPayload(&users[i]))
	}
	response.WriteJSON(w, http.StatusOK, payloads)
}

func (h *UsersHandler) create(w http.ResponseWriter, r *http.Request) {
	var req domain.UserCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	req.Email = utils.NormalizeEmail(req.Email)
	switch {
	case !utils.IsValidEmail(req.Email):
		response.BadRequest(w, "invalid email address")
		return
	case req.Name == "":
		response.BadRequest(w, "name is required")
		return
	case len(req.Password) < 8:
		response.BadRequest(w, "password must be at least 8 characters")
		return
	}

	role, ok := domain.ParseRole(req.Role)
	if !ok {
		response.BadRequest(w, "invalid role")
		return
	}

	p := middleware.Principal(r)
	// Granting staff roles beyond the default requires the roles grant;
	// minting an owner requires being one.
	if role != domain.RoleSales && !domain.Can(p, domain.PermRolesManage) {
		response.Forbidden(w, "insufficient permissions to assign this role")
		return
	}
	if role == domain.RoleOwner && !domain.Can(p, domain.PermOwnerAccess) {
		response.Forbidden(w, "only the owner can create owner accounts")
		return
	}

	perms := domain.ParsePermissions(req.Permissions)
	if len(perms) == 0 {
		perms = domain.RoleGrants(role)
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		response.InternalError(w, "failed to create user")
		return
	}

	u, err := h.Users.Create(r.Context(), req.Email, hash, req.Name, role, perms)
	if err != nil {
		// unique index on email is the usual cause
		response.WriteError(w, http.StatusConflict, "email already registered", response.CodeEmailExists)
		return
	}

	audit(r.Context(), h.Audit, p, "CREATE_USER", "user", fmt.Sprintf("%s (%s)", u.Email, u.Role))
	response.WriteJSON(w, http.StatusCreated, toUserPayload(u))
}

func (h *UsersHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	var patch domain.UserPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}

	p := middleware.Principal(r)
	if patch.Role != nil {
		role, ok := domain.ParseRole(*patch.Role)
		if !ok {
			response.BadRequest(w, "invalid role")
			return
		}
		if !domain.Can(p, domain.PermRolesManage) {
			response.Forbidden(w, "insufficient permissions to change roles")
			return
		}
		if role == domain.RoleOwner && !domain.Can(p, domain.PermOwnerAccess) {
			response.Forbidden(w, "only the owner can assign the owner role")
			return
		}
	}
	if patch.IsActive != nil && !*patch.IsActive && id == p.UserID {
		response.BadRequest(w, "cannot deactivate your own account")
		return
	}
	if patch.Permissions != nil {
		patch.Permissions = domain.PermissionStrings(domain.ParsePermissions(patch.Permissions))
	}

	u, err := h.Users.Update(r.Context(), id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, "failed to update user")
		return
	}

	if patch.IsActive != nil && !*patch.IsActive {
		if h.Bus != nil {
			err := h.Bus.Publish(r.Context(), events.UserDeactivated, events.UserDeactivatedEvent{
				UserID:        u.ID,
				DeactivatedBy: p.UserID,
				DeactivatedAt: time.Now(),
			})
			if err != nil {
				logger.ErrorContext(r.Context(), "failed to publish user.deactivated", "error", err)
			}
		}
		audit(r.Context(), h.Audit, p, "DEACTIVATE_USER", "user", u.Email)
	} else {
		audit(r.Context(), h.Audit, p, "UPDATE_USER", "user", u.Email)
	}

	response.WriteJSON(w, http.StatusOK, toUserPayload(u))
}
