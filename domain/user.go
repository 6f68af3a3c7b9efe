package domain

import (
	"time"

	"github.com/google/uuid"
)

// User is the account record. Only the argon2 hash of the password is ever
// stored.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
}

// Principal is the authenticated identity attached to a live session.
// The session guard rejects principals missing the ID or Email field.
type Principal struct {
	ID    uuid.UUID
	Email string
	Name  string
}

func (p Principal) WellFormed() bool {
	return p.ID != uuid.Nil && p.Email != ""
}
