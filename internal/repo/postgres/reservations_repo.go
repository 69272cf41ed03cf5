package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/floripafacil/backend/internal/domain"
)

type ReservationsRepo interface {
	Create(ctx context.Context, req *domain.ReservationCreateReq, packageTitle string, amountUSD int) (*domain.Reservation, error)
	FindByID(ctx context.Context, id int64) (*domain.Reservation, error)
	List(ctx context.Context, status *domain.ReservationStatus, limit, offset int) ([]domain.Reservation, error)
	ListBySeller(ctx context.Context, sellerID int64, limit, offset int) ([]domain.Reservation, error)
	Update(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error)

	// Dashboard/finance aggregations
	GlobalSales(ctx context.Context) (count int, revenueUSD int, err error)
	SellerSales(ctx context.Context) ([]domain.SellerSales, error)
	SalesForSeller(ctx context.Context, sellerID int64) (count int, revenueUSD int, err error)
	MonthlyRevenue(ctx context.Context, months int) ([]domain.MonthlyRevenue, error)
}

type ReservationsRepoImpl struct{ pool *pgxpool.Pool }

func NewReservationsRepo(pool *pgxpool.Pool) *ReservationsRepoImpl {
	return &ReservationsRepoImpl{pool: pool}
}

const reservationColumns = `id, status, package_id, package_title, customer_name, customer_email, customer_phone, travel_date, pax, notes, amount_usd, seller_id, created_at, updated_at`

func scanReservation(row interface{ Scan(dest ...any) error }) (*domain.Reservation, error) {
	var res domain.Reservation
	var status string
	if err := row.Scan(&res.ID, &status, &res.PackageID, &res.PackageTitle,
		&res.CustomerName, &res.CustomerEmail, &res.CustomerPhone,
		&res.TravelDate, &res.Pax, &res.Notes, &res.AmountUSD, &res.SellerID,
		&res.CreatedAt, &res.UpdatedAt); err != nil {
		return nil, err
	}
	res.Status = domain.ReservationStatus(status)
	return &res, nil
}

func (r *ReservationsRepoImpl) Create(ctx context.Context, req *domain.ReservationCreateReq, packageTitle string, amountUSD int) (*domain.Reservation, error) {
	const q = `
INSERT INTO reservations (status, package_id, package_title, customer_name, customer_email, customer_phone, travel_date, pax, notes, amount_usd)
VALUES ('pending',$1,$2,$3,$4,$5,$6,$7,$8,$9)
RETURNING ` + reservationColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanReservation(r.pool.QueryRow(ctx, q,
		req.PackageID, packageTitle, req.CustomerName, req.CustomerEmail, req.CustomerPhone,
		req.TravelDate, req.Pax, req.Notes, amountUSD))
}

func (r *ReservationsRepoImpl) FindByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id=$1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanReservation(r.pool.QueryRow(ctx, q, id))
}

func (r *ReservationsRepoImpl) List(ctx context.Context, status *domain.ReservationStatus, limit, offset int) ([]domain.Reservation, error) {
	const q = `
SELECT ` + reservationColumns + ` FROM reservations
WHERE ($1::text IS NULL OR status = $1)
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

func (r *ReservationsRepoImpl) ListBySeller(ctx context.Context, sellerID int64, limit, offset int) ([]domain.Reservation, error) {
	const q = `
SELECT ` + reservationColumns + ` FROM reservations
WHERE seller_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, sellerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectReservations(rows)
}

type rowsLike interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func collectReservations(rows rowsLike) ([]domain.Reservation, error) {
	var out []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *res)
	}
	return out, rows.Err()
}

func (r *ReservationsRepoImpl) Update(ctx context.Context, id int64, patch domain.ReservationPatch) (*domain.Reservation, error) {
	const q = `
UPDATE reservations SET
	status     = COALESCE($2, status),
	notes      = COALESCE($3, notes),
	seller_id  = COALESCE($4, seller_id),
	updated_at = now()
WHERE id = $1
RETURNING ` + reservationColumns
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return scanReservation(r.pool.QueryRow(ctx, q, id, patch.Status, patch.Notes, patch.SellerID))
}

func (r *ReservationsRepoImpl) GlobalSales(ctx context.Context) (int, int, error) {
	const q = `
SELECT COUNT(*), COALESCE(SUM(amount_usd), 0)
FROM reservations
WHERE status IN ('confirmed', 'completed')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count, revenue int
	if err := r.pool.QueryRow(ctx, q).Scan(&count, &revenue); err != nil {
		return 0, 0, err
	}
	return count, revenue, nil
}

func (r *ReservationsRepoImpl) SellerSales(ctx context.Context) ([]domain.SellerSales, error) {
	const q = `
SELECT u.id, u.name, COUNT(res.id), COALESCE(SUM(res.amount_usd), 0)
FROM users u
LEFT JOIN reservations res ON res.seller_id = u.id AND res.status IN ('confirmed', 'completed')
WHERE u.is_active
GROUP BY u.id, u.name
ORDER BY SUM(res.amount_usd) DESC NULLS LAST`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SellerSales
	for rows.Next() {
		var s domain.SellerSales
		if err := rows.Scan(&s.SellerID, &s.SellerName, &s.Sales, &s.RevenueUSD); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ReservationsRepoImpl) SalesForSeller(ctx context.Context, sellerID int64) (int, int, error) {
	const q = `
SELECT COUNT(*), COALESCE(SUM(amount_usd), 0)
FROM reservations
WHERE seller_id = $1 AND status IN ('confirmed', 'completed')`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var count, revenue int
	if err := r.pool.QueryRow(ctx, q, sellerID).Scan(&count, &revenue); err != nil {
		return 0, 0, err
	}
	return count, revenue, nil
}

func (r *ReservationsRepoImpl) MonthlyRevenue(ctx context.Context, months int) ([]domain.MonthlyRevenue, error) {
	const q = `
SELECT date_trunc('month', travel_date) AS month, COALESCE(SUM(amount_usd), 0)
FROM reservations
WHERE status IN ('confirmed', 'completed')
  AND travel_date >= date_trunc('month', now()) - ($1 || ' months')::interval
GROUP BY 1
ORDER BY 1`
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := r.pool.Query(ctx, q, months)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.MonthlyRevenue
	for rows.Next() {
		var m domain.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.RevenueUSD); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
