package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestTenantToleratesMissingHeader(t *testing.T) {
	var called bool
	handler := Tenant(nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req = req.WithContext(WithTenant(req.Context(), uuid.NewString(), "demo-cafe"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected request without header to pass")
	}
}

func TestTenantRejectsMismatch(t *testing.T) {
	var called bool
	handler := Tenant(nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.Header.Set("X-Tenant", "other-cafe")
	req = req.WithContext(WithTenant(req.Context(), uuid.NewString(), "demo-cafe"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected mismatched tenant to be blocked")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
}

func TestTenantMatchesCaseInsensitively(t *testing.T) {
	var called bool
	handler := Tenant(nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	req.Header.Set("X-Tenant", "Demo-Cafe")
	req = req.WithContext(WithTenant(req.Context(), uuid.NewString(), "demo-cafe"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected case-insensitive match to pass, got %d", rec.Code)
	}
}

func TestLocationParsesHeader(t *testing.T) {
	locationID := uuid.NewString()
	var got string
	handler := Location(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = LocationIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/inventory/stock/", nil)
	req.Header.Set("X-Store-Location", locationID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got != locationID {
		t.Fatalf("expected location %s in context, got %s", locationID, got)
	}
}

func TestLocationRejectsMalformedHeader(t *testing.T) {
	var called bool
	handler := Location(nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/inventory/stock/", nil)
	req.Header.Set("X-Store-Location", "not-a-uuid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected malformed header to be rejected")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRequireLocation(t *testing.T) {
	var called bool
	handler := RequireLocation(nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodGet, "/inventory/stock/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if called || rec.Code != http.StatusBadRequest {
		t.Fatalf("expected missing location to be rejected, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/inventory/stock/", nil)
	req = req.WithContext(WithLocationID(req.Context(), uuid.NewString()))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatalf("expected selected location to pass, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	var called bool
	handler := RequireRole(nil, "owner", "admin")(okHandler(&called))

	req := httptest.NewRequest(http.MethodPut, "/settings/", nil)
	req = req.WithContext(WithRole(req.Context(), "staff"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if called || rec.Code != http.StatusForbidden {
		t.Fatalf("expected staff to be blocked, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPut, "/settings/", nil)
	req = req.WithContext(WithRole(req.Context(), "admin"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatalf("expected admin to pass, got %d", rec.Code)
	}
}
