package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/floripafacil/backend/internal/domain"
	"github.com/floripafacil/backend/internal/http/handlers"
	"github.com/floripafacil/backend/internal/http/middleware"
)

// ---------- Mocks ----------

type mockUsersRepo struct {
	nextID int64
	users  map[string]*domain.User
}

func newMockUsersRepo() *mockUsersRepo {
	return &mockUsersRepo{nextID: 1, users: make(map[string]*domain.User)}
}

func (m *mockUsersRepo) add(u *domain.User) {
	u.ID = m.nextID
	m.nextID++
	m.users[u.Email] = u
}

func (m *mockUsersRepo) Create(_ context.Context, email, hash, name string, role domain.Role, permissions []domain.Permission) (*domain.User, error) {
	u := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         role,
		Permissions:  permissions,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	m.add(u)
	return u, nil
}

func (m *mockUsersRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUsersRepo) FindByID(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUsersRepo) List(context.Context) ([]domain.User, error) { return nil, nil }

func (m *mockUsersRepo) Update(_ context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	return nil, pgx.ErrNoRows
}

func (m *mockUsersRepo) UpdatePasswordHash(_ context.Context, id int64, hash string) error {
	for _, u := range m.users {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return pgx.ErrNoRows
}

// ---------- Helpers ----------

// newAuthRouter mounts login plus permission-gated routes the way cmd/api
// does, so the token a login issues is exercised end to end.
func newAuthRouter(t *testing.T, users *mockUsersRepo) chi.Router {
	t.Helper()
	h := handlers.NewAuthHandler(users, &mockAuditRepo{}, testSecret, time.Hour)

	r := chi.NewRouter()
	r.Mount("/api/auth", h.Routes())
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(testSecret))
		for _, perm := range domain.AllPermissions() {
			r.With(middleware.RequirePermission(perm)).Get("/api/admin/gate/"+string(perm), func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		}
	})
	return r
}

func seedSalesUser(t *testing.T, users *mockUsersRepo, password string, explicit []domain.Permission) *domain.User {
	t.Helper()
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	u := &domain.User{
		Email:        "ventas@floripafacil.com",
		Name:         "Vendedor Top",
		PasswordHash: hash,
		Role:         domain.RoleSales,
		Permissions:  explicit,
		IsActive:     true,
	}
	users.add(u)
	return u
}

func doLogin(t *testing.T, r chi.Router, email, password string) (string, []string, int) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		t.Fatalf("failed to marshal login body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return "", nil, rec.Code
	}

	var out struct {
		Token string `json:"token"`
		User  struct {
			Permissions []string `json:"permissions"`
		} `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("failed to decode login response: %v", err)
	}
	return out.Token, out.User.Permissions, rec.Code
}

// ---------- Tests ----------

func TestLoginTokenCarriesEffectivePermissions(t *testing.T) {
	users := newMockUsersRepo()
	// Explicit list holds only an extra grant; the role grants must still be
	// enforceable from the issued token.
	seedSalesUser(t, users, "hunter2secret", []domain.Permission{domain.PermAuditLogsView})
	r := newAuthRouter(t, users)

	token, reported, code := doLogin(t, r, "ventas@floripafacil.com", "hunter2secret")
	if code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", code)
	}

	effective := domain.PermissionStrings(domain.EffectivePermissions(
		domain.RoleSales, []domain.Permission{domain.PermAuditLogsView}))
	allowed := make(map[string]bool, len(effective))
	for _, p := range effective {
		allowed[p] = true
	}

	// What the login payload reports as held must be exactly what the
	// gates enforce.
	if len(reported) != len(effective) {
		t.Errorf("login payload reports %v, want effective set %v", reported, effective)
	}

	for _, perm := range domain.AllPermissions() {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/gate/"+string(perm), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		want := http.StatusForbidden
		if allowed[string(perm)] {
			want = http.StatusOK
		}
		if rec.Code != want {
			t.Errorf("gate %s: status = %d, want %d", perm, rec.Code, want)
		}
	}
}

func TestLoginRoleGrantAndExplicitExtraBothEnforced(t *testing.T) {
	users := newMockUsersRepo()
	seedSalesUser(t, users, "hunter2secret", []domain.Permission{domain.PermAuditLogsView})
	r := newAuthRouter(t, users)

	token, _, code := doLogin(t, r, "ventas@floripafacil.com", "hunter2secret")
	if code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", code)
	}

	// dashboard.view comes from the role, audit.logs.view from the explicit
	// list; both must pass.
	for _, perm := range []domain.Permission{domain.PermDashboardView, domain.PermAuditLogsView} {
		req := httptest.NewRequest(http.MethodGet, "/api/admin/gate/"+string(perm), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("gate %s: status = %d, want 200", perm, rec.Code)
		}
	}
}

func TestLoginRejectsBadCredentialsAndInactive(t *testing.T) {
	users := newMockUsersRepo()
	u := seedSalesUser(t, users, "hunter2secret", nil)
	r := newAuthRouter(t, users)

	if _, _, code := doLogin(t, r, "ventas@floripafacil.com", "wrong-password"); code != http.StatusUnauthorized {
		t.Errorf("wrong password: status = %d, want 401", code)
	}
	if _, _, code := doLogin(t, r, "nobody@floripafacil.com", "hunter2secret"); code != http.StatusUnauthorized {
		t.Errorf("unknown email: status = %d, want 401", code)
	}

	u.IsActive = false
	if _, _, code := doLogin(t, r, "ventas@floripafacil.com", "hunter2secret"); code != http.StatusForbidden {
		t.Errorf("inactive user: status = %d, want 403", code)
	}
}
