package domain

import "time"

// TourPackage is a sellable transfer/excursion bundle shown on the landing
// page. Price is in whole USD, matching the public price list.
type TourPackage struct {
	ID            string    `json:"id"` // slug, e.g. "bombinhas-relax"
	Title         string    `json:"title"`
	Subtitle      string    `json:"subtitle"`
	DestinationID string    `json:"destination_id"`
	Destinations  []string  `json:"destinations"`
	PriceUSD      int       `json:"price_usd"`
	IsBestSeller  bool      `json:"is_best_seller"`
	Features      []string  `json:"features"`
	Image         string    `json:"image"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PackageUpsertReq struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle"`
	DestinationID string   `json:"destination_id"`
	Destinations  []string `json:"destinations"`
	PriceUSD      int      `json:"price_usd"`
	IsBestSeller  bool     `json:"is_best_seller"`
	Features      []string `json:"features"`
	Image         string   `json:"image"`
	IsActive      *bool    `json:"is_active,omitempty"`
}
