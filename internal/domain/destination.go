package domain

import "time"

type Destination struct {
	ID           string    `json:"id"` // slug, e.g. "bombinhas"
	Name         string    `json:"name"`
	ShortDesc    string    `json:"short_desc"`
	Description  string    `json:"description"`
	TravelerType string    `json:"traveler_type"`
	Image        string    `json:"image"`
	Attractions  []string  `json:"attractions"`
	Gallery      []string  `json:"gallery"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type DestinationUpsertReq struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	ShortDesc    string   `json:"short_desc"`
	Description  string   `json:"description"`
	TravelerType string   `json:"traveler_type"`
	Image        string   `json:"image"`
	Attractions  []string `json:"attractions"`
	Gallery      []string `json:"gallery"`
}
