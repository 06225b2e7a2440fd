package auth

import (
	"github.com/calderapos/caldera-backend/internal/users"
)

// LoginRequest captures the credentials sent to the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the minted tokens and the authenticated user. The
// controller moves the tokens into HTTP-only cookies; they never appear in
// the response body.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *users.UserDTO
}

// RefreshResult carries the rotated token pair.
type RefreshResult struct {
	AccessToken  string
	RefreshToken string
}
