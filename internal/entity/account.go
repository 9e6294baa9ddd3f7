package entity

import "time"

// Account is a login-capable identity, uniquely keyed by email. The unique
// constraint on accounts.email is what makes concurrent creation safe.
type Account struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"` // "admin", "student", "parent"
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
