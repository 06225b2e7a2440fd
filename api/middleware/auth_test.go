package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgauth "github.com/calderapos/caldera-backend/pkg/auth"
	"github.com/calderapos/caldera-backend/pkg/config"
	"github.com/calderapos/caldera-backend/pkg/enums"
)

var authTestJWTConfig = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "caldera-test",
	ExpirationMinutes: 15,
}

type stubSessionChecker struct {
	active map[string]bool
	err    error
}

func (s *stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.active[accessID], nil
}

func mintTestToken(t *testing.T, accessID string) (string, uuid.UUID, uuid.UUID) {
	t.Helper()
	userID, tenantID := uuid.New(), uuid.New()
	token, err := pkgauth.MintAccessToken(authTestJWTConfig, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:   userID,
		TenantID: tenantID,
		Tenant:   "demo-cafe",
		Role:     enums.UserRoleStaff,
		JTI:      accessID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token, userID, tenantID
}

func TestAuthRejectsMissingCookie(t *testing.T) {
	handler := Auth(authTestJWTConfig, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	handler := Auth(authTestJWTConfig, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.AddCookie(&http.Cookie{Name: pkgauth.AccessCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	token, _, _ := mintTestToken(t, "access-revoked")
	checker := &stubSessionChecker{active: map[string]bool{}}
	handler := Auth(authTestJWTConfig, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.AddCookie(&http.Cookie{Name: pkgauth.AccessCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for revoked session, got %d", rec.Code)
	}
}

func TestAuthSeedsContext(t *testing.T) {
	accessID := "access-123"
	token, userID, tenantID := mintTestToken(t, accessID)
	checker := &stubSessionChecker{active: map[string]bool{accessID: true}}

	var gotUser, gotTenant, gotRole, gotAccess string
	handler := Auth(authTestJWTConfig, checker, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotTenant = TenantIDFromContext(r.Context())
		gotRole = RoleFromContext(r.Context())
		gotAccess = AccessIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.AddCookie(&http.Cookie{Name: pkgauth.AccessCookieName, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected handler to run, got %d", rec.Code)
	}
	if gotUser != userID.String() || gotTenant != tenantID.String() {
		t.Fatalf("expected identity in context, got user=%s tenant=%s", gotUser, gotTenant)
	}
	if gotRole != string(enums.UserRoleStaff) || gotAccess != accessID {
		t.Fatalf("expected role and access id in context, got role=%s access=%s", gotRole, gotAccess)
	}
}
