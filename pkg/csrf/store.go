package csrf

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
)

const tokenBytes = 32

// ErrTokenMismatch signals a missing or stale CSRF token.
var ErrTokenMismatch = errors.New("csrf token mismatch")

type tokenStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

type tokenKeyer interface {
	CSRFKey(accessID string) string
}

// Store issues and verifies per-session CSRF tokens backed by Redis.
type Store struct {
	store tokenStore
	keyer tokenKeyer
	ttl   time.Duration
}

// Verifier exposes the read-only surface the middleware needs.
type Verifier interface {
	Verify(ctx context.Context, accessID, provided string) error
}

type storeClient interface {
	tokenStore
	tokenKeyer
}

// NewStore builds a CSRF token store with the provided TTL.
func NewStore(client storeClient, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("csrf token ttl must be positive")
	}
	return &Store{store: client, keyer: client, ttl: ttl}, nil
}

// Issue returns the CSRF token for the session, minting and storing a new
// one when none exists yet. Repeated calls within the TTL return the same
// token so parallel tabs agree.
func (s *Store) Issue(ctx context.Context, accessID string) (string, error) {
	if strings.TrimSpace(accessID) == "" {
		return "", fmt.Errorf("access id is required")
	}
	key := s.keyer.CSRFKey(accessID)
	existing, err := s.store.Get(ctx, key)
	if err == nil && existing != "" {
		return existing, nil
	}
	if err != nil && !errors.Is(err, redislib.Nil) {
		return "", err
	}

	token, err := generateToken()
	if err != nil {
		return "", err
	}
	if err := s.store.Set(ctx, key, token, s.ttl); err != nil {
		return "", err
	}
	return token, nil
}

// Verify compares the provided header token against the stored one.
func (s *Store) Verify(ctx context.Context, accessID, provided string) error {
	if strings.TrimSpace(accessID) == "" || strings.TrimSpace(provided) == "" {
		return ErrTokenMismatch
	}
	stored, err := s.store.Get(ctx, s.keyer.CSRFKey(accessID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return ErrTokenMismatch
		}
		return err
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(provided)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}

func generateToken() (string, error) {
	bytes := make([]byte, tokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("generating csrf token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
