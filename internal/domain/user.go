package domain

import "time"

// User is a staff account. Accounts are deactivated, never hard-deleted, so
// reservations and audit entries keep a valid actor reference.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	Permissions  []Permission `json:"permissions"`
	IsActive     bool         `json:"is_active"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// Principal builds the session principal for this user. The explicit list
// stored on the row rides along unchanged; Can applies the role rules on top.
func (u *User) Principal() *Principal {
	if u == nil {
		return nil
	}
	return &Principal{
		UserID:      u.ID,
		Name:        u.Name,
		Role:        u.Role,
		Permissions: u.Permissions,
	}
}

type UserCreateReq struct {
	Email       string   `json:"email"`
	Name        string   `json:"name"`
	Password    string   `json:"password"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type UserPatch struct {
	Name        *string  `json:"name,omitempty"`
	Role        *string  `json:"role,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}
