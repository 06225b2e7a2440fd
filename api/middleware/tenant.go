package middleware

import (
	"net/http"
	"strings"

	"github.com/calderapos/caldera-backend/api/responses"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

const tenantHeader = "X-Tenant"

// Tenant enforces that the X-Tenant header, when present, matches the tenant
// the session belongs to. Browsers send the header best-effort, so absence is
// tolerated; a mismatch means a stale tab pointed at another tenant and is
// rejected. Must run after Auth.
func Tenant(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := strings.TrimSpace(r.Header.Get(tenantHeader))
			if header != "" && !strings.EqualFold(header, TenantSlugFromContext(r.Context())) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "tenant mismatch"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
