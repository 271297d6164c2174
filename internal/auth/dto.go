package auth

import (
	"github.com/tourhub-io/tourhub-backend/internal/users"
)

// SignupRequest carries the self-registration payload. Role is deliberately
// absent: every signup starts as a plain user.
type SignupRequest struct {
	Name            string `json:"name" validate:"required,min=3,max=25"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required"`
	Photo           string `json:"photo" validate:"omitempty"`
}

// LoginRequest carries the credential pair for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by signup, login, and password-reset redemption.
// The account shape never includes the password hash or lockout state.
type AuthResponse struct {
	Token string         `json:"token"`
	User  *users.UserDTO `json:"user"`
}
