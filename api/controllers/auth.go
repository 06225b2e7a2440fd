package controllers

import (
	"net/http"
	"strings"

	"github.com/calderapos/caldera-backend/api/middleware"
	"github.com/calderapos/caldera-backend/api/responses"
	"github.com/calderapos/caldera-backend/api/validators"
	authsvc "github.com/calderapos/caldera-backend/internal/auth"
	pkgauth "github.com/calderapos/caldera-backend/pkg/auth"
	"github.com/calderapos/caldera-backend/pkg/config"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r loginRequest) toInput() authsvc.LoginRequest {
	return authsvc.LoginRequest{
		Email:    strings.TrimSpace(r.Email),
		Password: r.Password,
	}
}

// Login authenticates a user within the tenant named by the X-Tenant header
// and moves the issued tokens into HttpOnly cookies.
func Login(svc authsvc.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		tenantSlug := strings.TrimSpace(r.Header.Get("X-Tenant"))
		if tenantSlug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "tenant header required"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), tenantSlug, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, pkgauth.NewAccessCookie(jwtCfg, result.AccessToken))
		http.SetCookie(w, pkgauth.NewRefreshCookie(jwtCfg, result.RefreshToken))
		responses.WriteSuccess(w, result.User)
	}
}

// Refresh rotates the session using the access and refresh cookies. Any
// failure here means the caller has to log in again, so everything maps to
// an unauthorized response.
func Refresh(svc authsvc.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessCookie, err := r.Cookie(pkgauth.AccessCookieName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session cookie missing"))
			return
		}
		refreshCookie, err := r.Cookie(pkgauth.RefreshCookieName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh cookie missing"))
			return
		}

		result, err := svc.Refresh(r.Context(), accessCookie.Value, refreshCookie.Value)
		if err != nil {
			if typed := pkgerrors.As(err); typed != nil && typed.Code() != pkgerrors.CodeDependency {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "session expired"))
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.SetCookie(w, pkgauth.NewAccessCookie(jwtCfg, result.AccessToken))
		http.SetCookie(w, pkgauth.NewRefreshCookie(jwtCfg, result.RefreshToken))
		responses.WriteSuccess(w, map[string]string{"status": "refreshed"})
	}
}

// Logout revokes the server-side session and expires both auth cookies.
func Logout(svc authsvc.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID != "" {
			if err := svc.Logout(r.Context(), accessID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}

		http.SetCookie(w, pkgauth.ExpireCookie(pkgauth.NewAccessCookie(jwtCfg, "")))
		http.SetCookie(w, pkgauth.ExpireCookie(pkgauth.NewRefreshCookie(jwtCfg, "")))
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
