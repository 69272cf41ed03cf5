package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/middleware"
	"github.com/floripafacil/backend/internal/http/response"
	"github.com/floripafacil/backend/internal/repo/postgres"
	"github.com/floripafacil/backend/internal/utils"
	"github.com/floripafacil/backend/pkg/auth"
	"github.com/floripafacil/backend/pkg/logger"
)

type AuthHandler struct {
	Users      postgres.UsersRepo
	Audit      postgres.AuditRepo
	JWTSecret  string
	SessionTTL time.Duration
}

func NewAuthHandler(users postgres.UsersRepo, auditRepo postgres.AuditRepo, jwtSecret string, sessionTTL time.Duration) *AuthHandler {
	return &AuthHandler{Users: users, Audit: auditRepo, JWTSecret: jwtSecret, SessionTTL: sessionTTL}
}

func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/login", h.login)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.JWTSecret))
		r.Get("/me", h.me)
		r.Post("/change-password", h.changePassword)
	})
	return r
}

// userPayload is the session user shape the admin UI consumes. Permissions
// are the effective set (role grants plus the explicit list), not the raw
// stored list.
type userPayload struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
	IsActive    bool     `json:"is_active"`
}

func toUserPayload(u *domain.User) userPayload {
	return userPayload{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Permissions: domain.PermissionStrings(domain.EffectivePermissions(u.Role, u.Permissions)),
		IsActive:    u.IsActive,
	}
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		response.BadRequest(w, "email and password are required")
		return
	}

	email := utils.NormalizeEmail(in.Email)
	u, err := h.Users.FindByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.Unauthorized(w, "invalid credentials")
			return
		}
		logger.ErrorContext(r.Context(), "login lookup failed", "error", err)
		response.InternalError(w, "failed to process login")
		return
	}
	if !u.IsActive {
		response.WriteError(w, http.StatusForbidden, "account is deactivated", response.CodeInactiveUser)
		return
	}

	ok, err := argon2id.ComparePasswordAndHash(in.Password, u.PasswordHash)
	if err != nil || !ok {
		response.Unauthorized(w, "invalid credentials")
		return
	}

	// The token carries the effective set (role grants plus the explicit
	// list), same as the /me payload, so enforcement and the UI never
	// disagree about what the session holds.
	token, err := auth.NewSessionToken(
		u.ID, u.Email, u.Name, string(u.Role),
		domain.PermissionStrings(domain.EffectivePermissions(u.Role, u.Permissions)),
		h.JWTSecret, h.SessionTTL,
	)
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to sign session token", "error", err)
		response.InternalError(w, "failed to process login")
		return
	}

	response.WriteJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  toUserPayload(u),
	})
}

func (h *AuthHandler) me(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r)
	if p == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	u, err := h.Users.FindByID(r.Context(), p.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			response.NotFound(w, "user not found")
			return
		}
		response.InternalError(w, "failed to load user")
		return
	}
	response.WriteJSON(w, http.StatusOK, toUserPayload(u))
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	p := middleware.Principal(r)
	if p == nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	var in struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.BadRequest(w, "invalid JSON body")
		return
	}
	if len(in.NewPassword) < 8 {
		response.BadRequest(w, "new password must be at least 8 characters")
		return
	}

	u, err := h.Users.FindByID(r.Context(), p.UserID)
	if err != nil {
		response.InternalError(w, "failed to load user")
		return
	}

	ok, err := argon2id.ComparePasswordAndHash(in.CurrentPassword, u.PasswordHash)
	if err != nil || !ok {
		response.Unauthorized(w, "current password is incorrect")
		return
	}

	hash, err := argon2id.CreateHash(in.NewPassword, argon2id.DefaultParams)
	if err != nil {
		response.InternalError(w, "failed to update password")
		return
	}
	if err := h.Users.UpdatePasswordHash(r.Context(), u.ID, hash); err != nil {
		response.InternalError(w, "failed to update password")
		return
	}

	audit(r.Context(), h.Audit, p, "CHANGE_PASSWORD", "user", u.Email)
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
