package types

import (
	"time"

	"github.com/google/uuid"
)

// User is the public view of a user account. The password hash is never
// included here.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	Credits   int        `json:"credits"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// RegisterRequest is the payload for account creation.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned by both register and login.
type LoginResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
