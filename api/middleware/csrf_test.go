package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/calderapos/caldera-backend/pkg/csrf"
	"github.com/calderapos/caldera-backend/pkg/types"
)

type stubVerifier struct {
	expected string
	err      error
	calls    int
}

func (s *stubVerifier) Verify(ctx context.Context, accessID, provided string) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	if provided != s.expected {
		return csrf.ErrTokenMismatch
	}
	return nil
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusNoContent)
	})
}

func decodeErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope types.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error.Code
}

func TestCSRFSkipsSafeMethods(t *testing.T) {
	verifier := &stubVerifier{expected: "tok"}
	var called bool
	handler := CSRF(verifier, nil)(okHandler(&called))

	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
		called = false
		req := httptest.NewRequest(method, "/products/", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if !called {
			t.Fatalf("%s: expected safe method to pass without a token", method)
		}
	}
	if verifier.calls != 0 {
		t.Fatalf("expected no verification for safe methods, got %d", verifier.calls)
	}
}

func TestCSRFRequiresSession(t *testing.T) {
	var called bool
	handler := CSRF(&stubVerifier{expected: "tok"}, nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "/products/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected request to be blocked")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestCSRFRejectsStaleToken(t *testing.T) {
	var called bool
	handler := CSRF(&stubVerifier{expected: "tok"}, nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "/products/", nil)
	req.Header.Set("X-CSRF-Token", "stale")
	req = req.WithContext(WithAccessID(req.Context(), "access-123"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if called {
		t.Fatalf("expected request to be blocked")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if code := decodeErrorCode(t, rec); code != "CSRF_REJECTED" {
		t.Fatalf("expected CSRF_REJECTED, got %s", code)
	}
}

func TestCSRFAcceptsMatchingToken(t *testing.T) {
	var called bool
	handler := CSRF(&stubVerifier{expected: "tok"}, nil)(okHandler(&called))

	req := httptest.NewRequest(http.MethodPost, "/products/", nil)
	req.Header.Set("X-CSRF-Token", "tok")
	req = req.WithContext(WithAccessID(req.Context(), "access-123"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatalf("expected request to pass, got %d", rec.Code)
	}
}
