package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	store := &MemoryLocationStore{}
	if err := store.Set("11111111-1111-1111-1111-111111111111"); err != nil {
		t.Fatalf("seed location store: %v", err)
	}
	c, err := New(Options{
		BaseURL:   baseURL,
		Tenant:    "demo-cafe",
		Locations: store,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func writeCSRF(w http.ResponseWriter, token string) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, `{"data":{"csrf_token":%q}}`, token)
}

func TestEnsureCSRFTokenSingleFetch(t *testing.T) {
	var fetches int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/security/csrf/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		atomic.AddInt64(&fetches, 1)
		time.Sleep(30 * time.Millisecond)
		writeCSRF(w, "tok-1")
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	const n = 20
	start := make(chan struct{})
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			tokens[i] = c.ensureCSRFToken(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Fatalf("expected exactly one csrf fetch, got %d", got)
	}
	for i, token := range tokens {
		if token != "tok-1" {
			t.Fatalf("caller %d got token %q, want tok-1", i, token)
		}
	}
}

func TestConcurrentPostsShareOneCSRFToken(t *testing.T) {
	var fetches int64
	var mu sync.Mutex
	var seen []string

	mux := http.NewServeMux()
	mux.HandleFunc("/security/csrf/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&fetches, 1)
		time.Sleep(20 * time.Millisecond)
		writeCSRF(w, "shared-token")
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("X-CSRF-Token"))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"id":"22222222-2222-2222-2222-222222222222","sku":"s","name":"n","category":"c","price_cents":1,"tax_rate_percent":"0","modifiers":[],"is_active":true,"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)

	const n = 5
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := c.ProductCreate(context.Background(), CreateProductParams{SKU: "s", Name: "n", Category: "c"}); err != nil {
				t.Errorf("product create: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Fatalf("expected exactly one csrf fetch for %d posts, got %d", n, got)
	}
	if len(seen) != n {
		t.Fatalf("expected %d posts, saw %d", n, len(seen))
	}
	for i, token := range seen {
		if token != "shared-token" {
			t.Fatalf("post %d carried token %q, want shared-token", i, token)
		}
	}
}

func TestCSRFFetchFailureProceedsWithoutHeader(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/security/csrf/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	})
	var sawToken atomic.Bool
	mux.HandleFunc("/settings/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRF-Token") != "" {
			sawToken.Store(true)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"settings":{}}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	if _, err := c.SettingsUpdate(context.Background(), map[string]string{"timezone": "UTC"}); err != nil {
		t.Fatalf("settings update: %v", err)
	}
	if sawToken.Load() {
		t.Fatal("request carried a csrf token even though the fetch failed")
	}
	if got := c.CSRFToken(); got != "" {
		t.Fatalf("token cache should stay empty after failure, got %q", got)
	}
}

func TestRefreshSessionSingleflight(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/token/refresh/" || r.Method != http.MethodPost {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		atomic.AddInt64(&calls, 1)
		time.Sleep(30 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"status":"refreshed"}}`)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	const n = 15
	start := make(chan struct{})
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = c.RefreshSession(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", got)
	}
	for i, err := range errs {
		if err != nil {
			t.Fatalf("caller %d got error: %v", i, err)
		}
	}
}

func TestRefreshSessionSharedFailure(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(30 * time.Millisecond)
		http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid session"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	const n = 10
	start := make(chan struct{})
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs[i] = c.RefreshSession(context.Background())
		}(i)
	}
	close(start)
	wg.Wait()

	if got := atomic.LoadInt64(&calls); got != 1 {
		t.Fatalf("expected exactly one refresh call, got %d", got)
	}
	for i, err := range errs {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
			t.Fatalf("caller %d expected shared 401, got %v", i, err)
		}
	}

	// The in-flight slot cleared, so a later call tries the network again.
	_ = c.RefreshSession(context.Background())
	if got := atomic.LoadInt64(&calls); got != 2 {
		t.Fatalf("expected a later refresh to issue a new call, got %d total", got)
	}
}

func TestUnauthorizedRetriedExactlyOnce(t *testing.T) {
	var refreshCalls, orderCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"status":"refreshed"}}`)
	})
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt64(&orderCalls, 1) == 1 {
			http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`, http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"orders":[]}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	page, err := c.OrderList(context.Background(), OrderListParams{})
	if err != nil {
		t.Fatalf("order list: %v", err)
	}
	if len(page.Orders) != 0 {
		t.Fatalf("unexpected orders: %v", page.Orders)
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Fatalf("expected one refresh, got %d", got)
	}
	if got := atomic.LoadInt64(&orderCalls); got != 2 {
		t.Fatalf("expected original plus one retry, got %d calls", got)
	}
}

func TestSecondUnauthorizedPropagates(t *testing.T) {
	var refreshCalls, orderCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"status":"refreshed"}}`)
	})
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&orderCalls, 1)
		http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"still expired"}}`, http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.OrderList(context.Background(), OrderListParams{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected 401 to propagate, got %v", err)
	}
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Fatalf("expected exactly one refresh, got %d", got)
	}
	if got := atomic.LoadInt64(&orderCalls); got != 2 {
		t.Fatalf("expected exactly two attempts, got %d", got)
	}
}

func TestRefreshFailurePropagatesWithoutRetry(t *testing.T) {
	var refreshCalls, orderCalls int64

	mux := http.NewServeMux()
	mux.HandleFunc("/users/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&refreshCalls, 1)
		http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"invalid session"}}`, http.StatusUnauthorized)
	})
	mux.HandleFunc("/orders/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&orderCalls, 1)
		http.Error(w, `{"error":{"code":"UNAUTHORIZED","message":"token expired"}}`, http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.OrderList(context.Background(), OrderListParams{})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected refresh error to surface, got %v", err)
	}
	// Refresh endpoint 401s are never themselves retried: one refresh call,
	// and the original request is not resubmitted after the failed refresh.
	if got := atomic.LoadInt64(&refreshCalls); got != 1 {
		t.Fatalf("expected exactly one refresh attempt, got %d", got)
	}
	if got := atomic.LoadInt64(&orderCalls); got != 1 {
		t.Fatalf("expected no retry after failed refresh, got %d calls", got)
	}
}

func TestForbiddenMutatingRetriedWithFreshToken(t *testing.T) {
	var csrfFetches int64
	var mu sync.Mutex
	var seen []string

	mux := http.NewServeMux()
	mux.HandleFunc("/security/csrf/", func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt64(&csrfFetches, 1)
		writeCSRF(w, fmt.Sprintf("tok-%d", n))
	})
	mux.HandleFunc("/discounts/", func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-CSRF-Token")
		mu.Lock()
		seen = append(seen, token)
		mu.Unlock()
		if token != "tok-2" {
			http.Error(w, `{"error":{"code":"CSRF_REJECTED","message":"csrf token missing or stale"}}`, http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"id":"33333333-3333-3333-3333-333333333333","name":"happy hour","kind":"percent","value":"10","scope":"order","is_active":true,"created_at":"2026-01-01T00:00:00Z","updated_at":"2026-01-01T00:00:00Z"}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	// Seed the stale token the way a long-lived process would hold one.
	c.ensureCSRFToken(context.Background())

	if _, err := c.DiscountCreate(context.Background(), CreateDiscountParams{Name: "happy hour", Kind: "percent"}); err != nil {
		t.Fatalf("discount create: %v", err)
	}
	if got := atomic.LoadInt64(&csrfFetches); got != 2 {
		t.Fatalf("expected stale token plus one refetch, got %d fetches", got)
	}
	if len(seen) != 2 || seen[0] != "tok-1" || seen[1] != "tok-2" {
		t.Fatalf("unexpected token sequence %v", seen)
	}
}

func TestSecondForbiddenPropagates(t *testing.T) {
	var csrfFetches, attempts int64

	mux := http.NewServeMux()
	mux.HandleFunc("/security/csrf/", func(w http.ResponseWriter, r *http.Request) {
		writeCSRF(w, fmt.Sprintf("tok-%d", atomic.AddInt64(&csrfFetches, 1)))
	})
	mux.HandleFunc("/discounts/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&attempts, 1)
		http.Error(w, `{"error":{"code":"FORBIDDEN","message":"no"}}`, http.StatusForbidden)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.DiscountCreate(context.Background(), CreateDiscountParams{Name: "x", Kind: "percent"})

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("expected 403 to propagate, got %v", err)
	}
	if got := atomic.LoadInt64(&attempts); got != 2 {
		t.Fatalf("expected exactly two attempts, got %d", got)
	}
}

func TestMutatingRequestDecoration(t *testing.T) {
	var headers http.Header
	mux := http.NewServeMux()
	mux.HandleFunc("/security/csrf/", func(w http.ResponseWriter, r *http.Request) {
		writeCSRF(w, "tok-1")
	})
	mux.HandleFunc("/settings/", func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"settings":{"timezone":"UTC"}}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	if _, err := c.SettingsUpdate(context.Background(), map[string]string{"timezone": "UTC"}); err != nil {
		t.Fatalf("settings update: %v", err)
	}

	if got := headers.Get("X-CSRF-Token"); got != "tok-1" {
		t.Fatalf("csrf header = %q", got)
	}
	if got := headers.Get("X-Requested-With"); got != "XMLHttpRequest" {
		t.Fatalf("requested-with header = %q", got)
	}
	if got := headers.Get("X-Tenant"); got != "demo-cafe" {
		t.Fatalf("tenant header = %q", got)
	}
	if got := headers.Get("X-Store-Location"); got != "11111111-1111-1111-1111-111111111111" {
		t.Fatalf("store location header = %q", got)
	}
}

func TestGetRequestSkipsCSRF(t *testing.T) {
	var csrfFetches int64
	mux := http.NewServeMux()
	mux.HandleFunc("/security/csrf/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&csrfFetches, 1)
		writeCSRF(w, "tok-1")
	})
	mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-CSRF-Token") != "" || r.Header.Get("X-Requested-With") != "" {
			t.Error("read request carried mutating-request headers")
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"products":[]}}`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newTestClient(t, server.URL)
	if _, err := c.ProductList(context.Background(), ProductListParams{}); err != nil {
		t.Fatalf("product list: %v", err)
	}
	if got := atomic.LoadInt64(&csrfFetches); got != 0 {
		t.Fatalf("GET should not trigger a csrf fetch, got %d", got)
	}
}
