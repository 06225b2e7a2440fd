package middleware

import (
	"errors"
	"net/http"

	"github.com/calderapos/caldera-backend/api/responses"
	"github.com/calderapos/caldera-backend/pkg/csrf"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

const csrfHeader = "X-CSRF-Token"

// CSRF rejects state-changing requests whose token does not match the one
// issued for the session. Must run after Auth so the access ID is in context.
func CSRF(verifier csrf.Verifier, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			accessID := AccessIDFromContext(r.Context())
			if accessID == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id"))
				return
			}

			provided := r.Header.Get(csrfHeader)
			if err := verifier.Verify(r.Context(), accessID, provided); err != nil {
				if errors.Is(err, csrf.ErrTokenMismatch) {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeCSRF, "csrf token missing or stale"))
					return
				}
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "verify csrf token"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
