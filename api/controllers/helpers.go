package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/calderapos/caldera-backend/api/middleware"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
)

// tenantFromContext parses the tenant id seeded by the auth middleware.
func tenantFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.TenantIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tenant id")
	}
	return id, nil
}

// userFromContext parses the user id seeded by the auth middleware.
func userFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return id, nil
}

// locationFromContext parses the store location seeded by the location
// middleware. Callers that require a location sit behind RequireLocation,
// so an empty value here means the route was wired wrong.
func locationFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.LocationIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "store location header required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store location id")
	}
	return id, nil
}
