package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floripafacil/backend/internal/domain"
)

type AuditRepo interface {
	Append(ctx context.Context, actorID int64, actorName, action, entity, details string) error
	List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error)
}

type AuditRepoImpl struct{ pool *pgxpool.Pool }

func NewAuditRepo(pool *pgxpool.Pool) *AuditRepoImpl { return &AuditRepoImpl{pool: pool} }

func (r *AuditRepoImpl) Append(ctx context.Context, actorID int64, actorName, action, entity, details string) error {
	const q = `
INSERT INTO audit_log (actor_id, actor_name, action, entity, details)
VALUES ($1,$2,$3,$4,$5)`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_, err := r.pool.Exec(ctx, q, actorID, actorName, action, entity, details)
	return err
}

func (r *AuditRepoImpl) List(ctx context.Context, limit, offset int) ([]domain.AuditEntry, error) {
	const q = `
SELECT id, actor_id, actor_name, action, entity, details, created_at
FROM audit_log
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditEntry
	for rows.Next() {
		var e domain.AuditEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorName, &e.Action, &e.Entity, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
