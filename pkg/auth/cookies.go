package auth

import (
	"net/http"
	"time"

	"github.com/calderapos/caldera-backend/pkg/config"
)

const (
	// AccessCookieName carries the signed JWT.
	AccessCookieName = "caldera_access"
	// RefreshCookieName carries the opaque refresh token.
	RefreshCookieName = "caldera_refresh"
)

// NewAccessCookie builds the session cookie holding the access JWT.
func NewAccessCookie(cfg config.JWTConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     AccessCookieName,
		Value:    token,
		Path:     "/",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.AccessTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// NewRefreshCookie builds the cookie holding the opaque refresh token. It is
// scoped to the refresh endpoint so it never rides along on normal traffic.
func NewRefreshCookie(cfg config.JWTConfig, token string) *http.Cookie {
	return &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     "/users/token",
		Domain:   cfg.CookieDomain,
		MaxAge:   int(cfg.RefreshTokenTTL().Seconds()),
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpireCookie returns a copy of the cookie instructing the browser to drop it.
func ExpireCookie(cookie *http.Cookie) *http.Cookie {
	expired := *cookie
	expired.Value = ""
	expired.MaxAge = -1
	expired.Expires = time.Unix(0, 0)
	return &expired
}
