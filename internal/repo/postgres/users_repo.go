package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floripafacil/backend/internal/domain"
)

type UsersRepo interface {
	Create(ctx context.Context, email, hash, name string, role domain.Role, permissions []domain.Permission) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id int64, hash string) error
}

type UsersRepoImpl struct{ pool *pgxpool.Pool }

func NewUsersRepo(pool *pgxpool.Pool) *UsersRepoImpl { return &UsersRepoImpl{pool: pool} }

const userColumns = `id, email, name, password_hash, role, permissions, is_active, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	var role string
	var perms []string
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &perms, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.Permissions = domain.ParsePermissions(perms)
	return &u, nil
}

func (r *UsersRepoImpl) Create(ctx context.Context, email, hash, name string, role domain.Role, permissions []domain.Permission) (*domain.User, error) {
	const q = `
INSERT INTO users (email, password_hash, name, role, permissions)
VALUES ($1,$2,$3,$4,$5)
RETURNING ` + userColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.pool.QueryRow(ctx, q, email, hash, name, string(role), domain.PermissionStrings(permissions)))
}

func (r *UsersRepoImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *UsersRepoImpl) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *UsersRepoImpl) List(ctx context.Context) ([]domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY created_at`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *UsersRepoImpl) Update(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	const q = `
UPDATE users SET
	name        = COALESCE($2, name),
	role        = COALESCE($3, role),
	permissions = COALESCE($4, permissions),
	is_active   = COALESCE($5, is_active),
	updated_at  = now()
WHERE id = $1
RETURNING ` + userColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanUser(r.pool.QueryRow(ctx, q, id, patch.Name, patch.Role, patch.Permissions, patch.IsActive))
}

func (r *UsersRepoImpl) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	const q = `UPDATE users SET password_hash=$2, updated_at=now() WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, q, id, hash)
	return err
}
