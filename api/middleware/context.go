package middleware

import "context"

type contextKey string

const (
	ctxUserID     contextKey = "user_id"
	ctxRole       contextKey = "actor_role"
	ctxTenantID   contextKey = "tenant_id"
	ctxTenantSlug contextKey = "tenant_slug"
	ctxLocationID contextKey = "location_id"
	ctxAccessID   contextKey = "access_id"
)

func UserIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxUserID)
}

func RoleFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxRole)
}

func TenantIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxTenantID)
}

func TenantSlugFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxTenantSlug)
}

func LocationIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxLocationID)
}

func AccessIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxAccessID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return withString(ctx, ctxUserID, userID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	return withString(ctx, ctxRole, role)
}

// WithTenant injects the tenant identifier and slug into the context.
func WithTenant(ctx context.Context, tenantID, slug string) context.Context {
	ctx = withString(ctx, ctxTenantID, tenantID)
	return withString(ctx, ctxTenantSlug, slug)
}

// WithLocationID injects the selected store location into the context.
func WithLocationID(ctx context.Context, locationID string) context.Context {
	return withString(ctx, ctxLocationID, locationID)
}

// WithAccessID injects the session access identifier into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	return withString(ctx, ctxAccessID, accessID)
}

func withString(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}
