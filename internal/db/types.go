package db

import (
	"time"

	"github.com/google/uuid"
)

// User is a user account row, including the password hash. Handlers must
// convert to types.User before returning it to a client.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Credits      int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
