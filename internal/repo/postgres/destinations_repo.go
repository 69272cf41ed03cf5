package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floripafacil/backend/internal/domain"
)

type DestinationsRepo interface {
	List(ctx context.Context) ([]domain.Destination, error)
	FindByID(ctx context.Context, id string) (*domain.Destination, error)
	Upsert(ctx context.Context, req *domain.DestinationUpsertReq) (*domain.Destination, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type DestinationsRepoImpl struct{ pool *pgxpool.Pool }

func NewDestinationsRepo(pool *pgxpool.Pool) *DestinationsRepoImpl {
	return &DestinationsRepoImpl{pool: pool}
}

const destinationColumns = `id, name, short_desc, description, traveler_type, image, attractions, gallery, created_at, updated_at`

func scanDestination(row interface{ Scan(dest ...any) error }) (*domain.Destination, error) {
	var d domain.Destination
	if err := row.Scan(&d.ID, &d.Name, &d.ShortDesc, &d.Description, &d.TravelerType,
		&d.Image, &d.Attractions, &d.Gallery, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DestinationsRepoImpl) List(ctx context.Context) ([]domain.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations ORDER BY name`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dests []domain.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, err
		}
		dests = append(dests, *d)
	}
	return dests, rows.Err()
}

func (r *DestinationsRepoImpl) FindByID(ctx context.Context, id string) (*domain.Destination, error) {
	const q = `SELECT ` + destinationColumns + ` FROM destinations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanDestination(r.pool.QueryRow(ctx, q, id))
}

func (r *DestinationsRepoImpl) Upsert(ctx context.Context, req *domain.DestinationUpsertReq) (*domain.Destination, error) {
	const q = `
INSERT INTO destinations (id, name, short_desc, description, traveler_type, image, attractions, gallery)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
	name          = EXCLUDED.name,
	short_desc    = EXCLUDED.short_desc,
	description   = EXCLUDED.description,
	traveler_type = EXCLUDED.traveler_type,
	image         = EXCLUDED.image,
	attractions   = EXCLUDED.attractions,
	gallery       = EXCLUDED.gallery,
	updated_at    = now()
RETURNING ` + destinationColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanDestination(r.pool.QueryRow(ctx, q,
		req.ID, req.Name, req.ShortDesc, req.Description, req.TravelerType,
		req.Image, req.Attractions, req.Gallery))
}

func (r *DestinationsRepoImpl) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM destinations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
