package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Username  string     `json:"username" db:"username"`
	Email     string     `json:"email" db:"email"`
	Password  string     `json:"-" db:"password"` // bcrypt hash, never serialized
	Name      string     `json:"name" db:"name"`
	Lastname  string     `json:"lastname" db:"lastname"`
	Active    bool       `json:"active" db:"active"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt *time.Time `json:"updatedAt" db:"updated_at"`
}

// UserWithAccounts is a user listed together with its active accounts
type UserWithAccounts struct {
	User
	Accounts []Account `json:"accounts"`
}
