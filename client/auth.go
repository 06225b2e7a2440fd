package client

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// User is the session user returned by login.
type User struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   string     `json:"first_name"`
	LastName    string     `json:"last_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates against the client's tenant. Session credentials land
// in the cookie jar; callers only see the user profile.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	var user User
	if err := c.post(ctx, "/users/login/", loginRequest{Email: email, Password: password}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout revokes the session server-side and drops the cookies.
func (c *Client) Logout(ctx context.Context) error {
	err := c.post(ctx, "/users/logout/", nil, nil)
	c.InvalidateCSRFToken()
	return err
}
