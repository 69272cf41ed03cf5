package domain

import "time"

// AuditEntry records one administrative action. Entries are append-only.
type AuditEntry struct {
	ID        int64     `json:"id"`
	ActorID   int64     `json:"actor_id"`
	ActorName string    `json:"actor_name"`
	Action    string    `json:"action"` // e.g. "CREATE_USER", "SAVE_PACKAGE"
	Entity    string    `json:"entity"` // e.g. "user", "package", "reservation"
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
