package domain

import "time"

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationContacted ReservationStatus = "contacted"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCanceled  ReservationStatus = "canceled"
)

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch ReservationStatus(s) {
	case ReservationPending, ReservationContacted, ReservationConfirmed, ReservationCompleted, ReservationCanceled:
		return ReservationStatus(s), true
	default:
		return "", false
	}
}

// Reservation is a lead captured from the public booking form. It starts as
// pending and is worked by a seller through the contact funnel.
type Reservation struct {
	ID            int64             `json:"id"`
	Status        ReservationStatus `json:"status"`
	PackageID     string            `json:"package_id"`
	PackageTitle  string            `json:"package_title"`
	CustomerName  string            `json:"customer_name"`
	CustomerEmail string            `json:"customer_email"`
	CustomerPhone string            `json:"customer_phone"`
	TravelDate    time.Time         `json:"travel_date"`
	Pax           int               `json:"pax"`
	Notes         string            `json:"notes"`
	AmountUSD     int               `json:"amount_usd"`
	SellerID      *int64            `json:"seller_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

type ReservationCreateReq struct {
	PackageID     string    `json:"package_id"`
	CustomerName  string    `json:"customer_name"`
	CustomerEmail string    `json:"customer_email"`
	CustomerPhone string    `json:"customer_phone"`
	TravelDate    time.Time `json:"travel_date"`
	Pax           int       `json:"pax"`
	Notes         string    `json:"notes"`
}

type ReservationPatch struct {
	Status   *string `json:"status,omitempty"`
	Notes    *string `json:"notes,omitempty"`
	SellerID *int64  `json:"seller_id,omitempty"`
}

// SellerSales is the per-seller aggregation behind the dashboard and the
// finance report.
type SellerSales struct {
	SellerID   int64  `json:"seller_id"`
	SellerName string `json:"seller_name"`
	Sales      int    `json:"sales"`
	RevenueUSD int    `json:"revenue_usd"`
}

// MonthlyRevenue is one month of confirmed-revenue history.
type MonthlyRevenue struct {
	Month      time.Time `json:"month"`
	RevenueUSD int       `json:"revenue_usd"`
}
