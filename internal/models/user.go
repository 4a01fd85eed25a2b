package models

import (
	"time"

	"github.com/google/uuid"
)

// User roles.
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User represents an account able to authenticate against the API.
type User struct {
	BaseModel
	Name         string  `json:"name"`
	Email        string  `gorm:"uniqueIndex" json:"email"`
	Phone        string  `json:"phone"`
	Address      string  `json:"address"`
	PasswordHash string  `json:"-"`
	Role         string  `json:"role"`
	Orders       []Order `json:"orders,omitempty"`
}

// IsAdmin reports whether the user may access admin-only endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// AuthToken records an issued bearer token so logout can revoke it.
// The ID column doubles as the token's jti claim.
type AuthToken struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
