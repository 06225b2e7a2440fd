package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type stubLimiterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newStubLimiterStore() *stubLimiterStore {
	return &stubLimiterStore{counts: make(map[string]int64)}
}

func (s *stubLimiterStore) IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[key]++
	return s.counts[key], nil
}

func postLogin(handler http.Handler, ip, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users/login/", strings.NewReader(body))
	req.Header.Set("X-Forwarded-For", ip)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthRateLimitPerIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	var called int
	handler := AuthRateLimit(policy, newStubLimiterStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 2; i++ {
		if rec := postLogin(handler, "203.0.113.9", `{}`); rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected pass, got %d", i+1, rec.Code)
		}
	}
	rec := postLogin(handler, "203.0.113.9", `{}`)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 after limit, got %d", rec.Code)
	}
	if called != 2 {
		t.Fatalf("expected handler to run twice, got %d", called)
	}

	// Another address has its own counter.
	if rec := postLogin(handler, "198.51.100.7", `{}`); rec.Code != http.StatusNoContent {
		t.Fatalf("expected fresh ip to pass, got %d", rec.Code)
	}
}

func TestAuthRateLimitPerEmail(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	var lastBody string
	handler := AuthRateLimit(policy, newStubLimiterStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		lastBody = string(raw)
		w.WriteHeader(http.StatusNoContent)
	}))

	body := `{"email":"Owner@Demo.Cafe","password":"x"}`
	for i, ip := range []string{"203.0.113.1", "203.0.113.2"} {
		if rec := postLogin(handler, ip, body); rec.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected pass, got %d", i+1, rec.Code)
		}
	}
	// The handler downstream still sees the body after the limiter read it.
	if lastBody != body {
		t.Fatalf("expected body to be replayed downstream, got %q", lastBody)
	}

	// Same email from a third address is throttled; case must not matter.
	if rec := postLogin(handler, "203.0.113.3", `{"email":"owner@demo.cafe","password":"x"}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same email, got %d", rec.Code)
	}

	// A different email is not throttled.
	if rec := postLogin(handler, "203.0.113.4", `{"email":"other@demo.cafe","password":"x"}`); rec.Code != http.StatusNoContent {
		t.Fatalf("expected other email to pass, got %d", rec.Code)
	}
}

func TestAuthRateLimitDisabledPolicy(t *testing.T) {
	var called bool
	handler := AuthRateLimit(AuthRateLimitPolicy{}, newStubLimiterStore(), nil)(okHandler(&called))

	if rec := postLogin(handler, "203.0.113.9", `{}`); rec.Code != http.StatusNoContent || !called {
		t.Fatalf("expected disabled policy to pass through, got %d", rec.Code)
	}
}
