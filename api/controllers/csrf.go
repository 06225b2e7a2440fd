package controllers

import (
	"context"
	"net/http"

	"github.com/calderapos/caldera-backend/api/middleware"
	"github.com/calderapos/caldera-backend/api/responses"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

type csrfIssuer interface {
	Issue(ctx context.Context, accessID string) (string, error)
}

// CSRFToken mints (or refreshes) the per-session CSRF token. Clients call
// this after login and again whenever a write is rejected with a stale token.
func CSRFToken(issuer csrfIssuer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if issuer == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "csrf store unavailable"))
			return
		}

		accessID := middleware.AccessIDFromContext(r.Context())
		if accessID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session context missing"))
			return
		}

		token, err := issuer.Issue(r.Context(), accessID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "issue csrf token"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"csrf_token": token})
	}
}
