// internal/domain/user.go
package domain

import "time"

// UserRole controls access to the admin back-office endpoints.
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User represents an account holder in the wallet system.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Currency     string    `db:"currency" json:"currency"` // preferred currency, ISO 4217
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NewUser creates a new User instance with the default role.
func NewUser(email, fullName, passwordHash, currency string) *User {
	now := time.Now().UTC()
	return &User{
		Email:        email,
		FullName:     fullName,
		PasswordHash: passwordHash,
		Currency:     currency,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// IsAdmin reports whether the user may call admin endpoints.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
