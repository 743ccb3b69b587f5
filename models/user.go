package models

import (
	"time"
)

type Role string

const (
	RoleRequester Role = "requester"
	RoleProvider  Role = "provider"
)

// Valid reports whether r is one of the two recognized account roles.
func (r Role) Valid() bool {
	return r == RoleRequester || r == RoleProvider
}

// User is an account of either role. Role is fixed at registration and
// IsVerified flips to true exactly once, when a verification code is redeemed.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email" gorm:"unique"`
	Password   string    `json:"password,omitempty"`
	Role       Role      `json:"role"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
