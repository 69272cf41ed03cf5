package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floripafacil/backend/internal/domain"
)

type PackagesRepo interface {
	ListActive(ctx context.Context) ([]domain.TourPackage, error)
	ListAll(ctx context.Context) ([]domain.TourPackage, error)
	FindByID(ctx context.Context, id string) (*domain.TourPackage, error)
	Upsert(ctx context.Context, req *domain.PackageUpsertReq) (*domain.TourPackage, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type PackagesRepoImpl struct{ pool *pgxpool.Pool }

func NewPackagesRepo(pool *pgxpool.Pool) *PackagesRepoImpl { return &PackagesRepoImpl{pool: pool} }

const packageColumns = `id, title, subtitle, destination_id, destinations, price_usd, is_best_seller, features, image, is_active, created_at, updated_at`

func scanPackage(row interface{ Scan(dest ...any) error }) (*domain.TourPackage, error) {
	var p domain.TourPackage
	if err := row.Scan(&p.ID, &p.Title, &p.Subtitle, &p.DestinationID, &p.Destinations, &p.PriceUSD,
		&p.IsBestSeller, &p.Features, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PackagesRepoImpl) ListActive(ctx context.Context) ([]domain.TourPackage, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages WHERE is_active ORDER BY is_best_seller DESC, title`
	return r.list(ctx, q)
}

func (r *PackagesRepoImpl) ListAll(ctx context.Context) ([]domain.TourPackage, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages ORDER BY title`
	return r.list(ctx, q)
}

func (r *PackagesRepoImpl) list(ctx context.Context, q string) ([]domain.TourPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pkgs []domain.TourPackage
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		pkgs = append(pkgs, *p)
	}
	return pkgs, rows.Err()
}

func (r *PackagesRepoImpl) FindByID(ctx context.Context, id string) (*domain.TourPackage, error) {
	const q = `SELECT ` + packageColumns + ` FROM packages WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanPackage(r.pool.QueryRow(ctx, q, id))
}

func (r *PackagesRepoImpl) Upsert(ctx context.Context, req *domain.PackageUpsertReq) (*domain.TourPackage, error) {
	const q = `
INSERT INTO packages (id, title, subtitle, destination_id, destinations, price_usd, is_best_seller, features, image, is_active)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9, COALESCE($10, true))
ON CONFLICT (id) DO UPDATE SET
	title          = EXCLUDED.title,
	subtitle       = EXCLUDED.subtitle,
	destination_id = EXCLUDED.destination_id,
	destinations   = EXCLUDED.destinations,
	price_usd      = EXCLUDED.price_usd,
	is_best_seller = EXCLUDED.is_best_seller,
	features       = EXCLUDED.features,
	image          = EXCLUDED.image,
	is_active      = COALESCE($10, packages.is_active),
	updated_at     = now()
RETURNING ` + packageColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanPackage(r.pool.QueryRow(ctx, q,
		req.ID, req.Title, req.Subtitle, req.DestinationID, req.Destinations,
		req.PriceUSD, req.IsBestSeller, req.Features, req.Image, req.IsActive))
}

func (r *PackagesRepoImpl) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM packages WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
