package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/api/responses"
	"github.com/calderapos/caldera-backend/internal/reports"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

// SalesSummary aggregates sales by day for a date range. The from and to
// query params accept RFC 3339 timestamps or plain dates; to is exclusive.
func SalesSummary(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		tenantID, err := tenantFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		query := r.URL.Query()
		from, err := parseReportTime(query.Get("from"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from date"))
			return
		}
		to, err := parseReportTime(query.Get("to"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to date"))
			return
		}

		input := reports.SalesSummaryInput{
			TenantID: tenantID,
			From:     from,
			To:       to,
		}
		if raw := query.Get("location_id"); raw != "" {
			locationID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location id"))
				return
			}
			input.LocationID = &locationID
		}

		summary, err := svc.SalesSummary(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, summary)
	}
}

func parseReportTime(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
