package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/api/responses"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

const locationHeader = "X-Store-Location"

// Location reads the selected store location header into the context. The
// header is optional on most routes; handlers that need it pair this with
// RequireLocation.
func Location(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get(locationHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid store location header"))
				return
			}

			ctx := WithLocationID(r.Context(), id.String())
			if logg != nil {
				ctx = logg.WithLocationID(ctx, id.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireLocation rejects requests that did not select a store location.
func RequireLocation(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if LocationIDFromContext(r.Context()) == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "store location header required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
