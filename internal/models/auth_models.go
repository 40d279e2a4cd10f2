package models

import "time"

// User roles. Customers browse tables and submit orders; owners additionally
// manage pins, the kitchen queue, checkout and sales history.
const (
	RoleCustomer = "customer"
	RoleOwner    = "owner"
)

// User is an account that can sign in. PasswordHash is never serialized.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	Role         string    `json:"role" db:"role"`
	PasswordHash string    `json:"-" db:"password_hash"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
