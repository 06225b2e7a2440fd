package controllers

import (
	"context"
	"net/http"

	"go.uber.org/multierr"

	"github.com/calderapos/caldera-backend/api/responses"
	"github.com/calderapos/caldera-backend/pkg/config"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// HealthLive reports process liveness without touching dependencies.
func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Caldera-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the database and Redis and fails if either is down.
func HealthReady(cfg *config.Config, database, cache pinger, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Caldera-Env", cfg.App.Env)

		var errs []error
		if database != nil {
			if err := database.Ping(r.Context()); err != nil {
				errs = append(errs, err)
			}
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				errs = append(errs, err)
			}
		}
		if combined := multierr.Combine(errs...); combined != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, combined, "readiness check failed"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
