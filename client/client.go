// Package client is a Go SDK for the Caldera POS admin API. Its transport
// transparently maintains the per-session CSRF token and refreshes the
// session on expiry, so callers never deal with either concern.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	csrfPath    = "/security/csrf/"
	refreshPath = "/users/token/refresh/"

	defaultTimeout             = 30 * time.Second
	errorBodyReadLimit   int64 = 4096
	headerCSRFToken            = "X-CSRF-Token"
	headerRequestedWith        = "X-Requested-With"
	headerTenant               = "X-Tenant"
	headerStoreLocation        = "X-Store-Location"
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root, e.g. "https://api.calderapos.com".
	BaseURL string
	// Tenant is the tenant slug sent as X-Tenant on every request.
	Tenant string
	// Locations persists the selected store location across processes.
	// Optional; when nil no X-Store-Location header is sent.
	Locations LocationStore
	// HTTPClient overrides the default client. It must carry a cookie jar,
	// since session credentials travel as cookies.
	HTTPClient *http.Client
	// Timeout applies when HTTPClient is nil. Zero means 30s.
	Timeout time.Duration
}

// Client is an authenticated API client. Construct one per process and share
// it; all guard state lives on the instance.
type Client struct {
	baseURL    string
	tenant     string
	httpClient *http.Client
	locations  LocationStore

	// flight collapses concurrent CSRF fetches and session refreshes into
	// a single network call each.
	flight singleflight.Group

	mu        sync.Mutex
	csrfToken string
}

// retryState tracks the per-request once-only retries so neither the 401
// nor the 403 path can loop.
type retryState struct {
	csrfRetried bool
	authRetried bool
}

// New builds a Client. A cookie jar is installed when the caller does not
// supply an HTTP client of their own.
func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("building cookie jar: %w", err)
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Jar: jar, Timeout: timeout}
	}

	return &Client{
		baseURL:    baseURL,
		tenant:     strings.TrimSpace(opts.Tenant),
		httpClient: httpClient,
		locations:  opts.Locations,
	}, nil
}

// CSRFToken returns the currently cached token, if any.
func (c *Client) CSRFToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.csrfToken
}

// InvalidateCSRFToken drops the cached token so the next mutating request
// fetches a fresh one.
func (c *Client) InvalidateCSRFToken() {
	c.mu.Lock()
	c.csrfToken = ""
	c.mu.Unlock()
}

// ensureCSRFToken returns the cached token or performs exactly one fetch
// regardless of how many callers arrive while it is in flight. On failure it
// returns "" so the request proceeds without the header and the server gets
// to reject it.
func (c *Client) ensureCSRFToken(ctx context.Context) string {
	c.mu.Lock()
	token := c.csrfToken
	c.mu.Unlock()
	if token != "" {
		return token
	}

	v, err, _ := c.flight.Do("csrf", func() (any, error) {
		fetched, err := c.fetchCSRFToken(ctx)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.csrfToken = fetched
		c.mu.Unlock()
		return fetched, nil
	})
	if err != nil {
		return ""
	}
	return v.(string)
}

func (c *Client) fetchCSRFToken(ctx context.Context) (string, error) {
	resp, err := c.send(ctx, http.MethodGet, csrfPath, nil, nil, "")
	if err != nil {
		return "", err
	}
	var payload struct {
		CSRFToken string `json:"csrf_token"`
	}
	if err := decodeResponse(resp, &payload); err != nil {
		return "", err
	}
	if payload.CSRFToken == "" {
		return "", fmt.Errorf("empty csrf token in response")
	}
	return payload.CSRFToken, nil
}

// RefreshSession rotates the session cookies. Concurrent callers share one
// network call and one outcome; the in-flight slot clears when it returns,
// so a later caller can try again after a failure.
func (c *Client) RefreshSession(ctx context.Context) error {
	_, err, _ := c.flight.Do("refresh", func() (any, error) {
		resp, err := c.send(ctx, http.MethodPost, refreshPath, nil, nil, "")
		if err != nil {
			return nil, err
		}
		return nil, decodeResponse(resp, nil)
	})
	return err
}

// do runs one logical API call: send, then recover at most once from a
// stale CSRF token (403 on a mutating request) and at most once from an
// expired session (401 anywhere but the refresh endpoint itself).
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		payload = encoded
	}

	var state retryState
	for {
		csrfToken := ""
		if isMutating(method) {
			csrfToken = c.ensureCSRFToken(ctx)
		}

		resp, err := c.send(ctx, method, path, query, payload, csrfToken)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode == http.StatusForbidden && isMutating(method) && !state.csrfRetried:
			drainBody(resp)
			state.csrfRetried = true
			c.InvalidateCSRFToken()
			continue

		case resp.StatusCode == http.StatusUnauthorized && !state.authRetried && path != refreshPath:
			drainBody(resp)
			state.authRetried = true
			if err := c.RefreshSession(ctx); err != nil {
				return err
			}
			continue
		}

		return decodeResponse(resp, out)
	}
}

// send issues one HTTP request with the standard decoration: JSON headers,
// tenant and store-location scoping, and for mutating calls the CSRF token
// plus X-Requested-With. Missing scope values are skipped, not errors.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, csrfToken string) (*http.Response, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tenant != "" {
		req.Header.Set(headerTenant, c.tenant)
	}
	if c.locations != nil {
		if locationID, err := c.locations.Get(); err == nil && locationID != "" {
			req.Header.Set(headerStoreLocation, locationID)
		}
	}
	if isMutating(method) {
		req.Header.Set(headerRequestedWith, "XMLHttpRequest")
		if csrfToken != "" {
			req.Header.Set(headerCSRFToken, csrfToken)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	return resp, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, out)
}

func isMutating(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}

func drainBody(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyReadLimit))
	_ = resp.Body.Close()
}

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// decodeResponse reads the envelope: {"data": ...} on success, or
// {"error": {"code": ..., "message": ...}} on failure.
func decodeResponse(resp *http.Response, out any) error {
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(raw, &envelope); err == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding response data: %w", err)
	}
	return nil
}
