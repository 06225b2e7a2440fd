package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/calderapos/caldera-backend/pkg/auth"
	"github.com/calderapos/caldera-backend/pkg/auth/session"
	"github.com/calderapos/caldera-backend/pkg/config"
	"github.com/calderapos/caldera-backend/pkg/db/models"
	"github.com/calderapos/caldera-backend/pkg/enums"
	pkgerrors "github.com/calderapos/caldera-backend/pkg/errors"
	"github.com/calderapos/caldera-backend/pkg/security"
)

var testJWTConfig = config.JWTConfig{
	Secret:            "unit-test-secret",
	Issuer:            "caldera-test",
	ExpirationMinutes: 15,
}

var testPasswordConfig = config.PasswordConfig{
	ArgonMemoryKB:    8192,
	ArgonTime:        1,
	ArgonParallelism: 1,
	ArgonSaltLen:     16,
	ArgonKeyLen:      32,
}

type stubUserRepo struct {
	byEmail map[string]*models.User
	byID    map[uuid.UUID]*models.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		byEmail: make(map[string]*models.User),
		byID:    make(map[uuid.UUID]*models.User),
	}
}

func (s *stubUserRepo) add(user *models.User) {
	s.byEmail[fmt.Sprintf("%s/%s", user.TenantID, user.Email)] = user
	s.byID[user.ID] = user
}

func (s *stubUserRepo) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.User, error) {
	user, ok := s.byEmail[fmt.Sprintf("%s/%s", tenantID, email)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *stubUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := s.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (s *stubUserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	if user, ok := s.byID[id]; ok {
		user.LastLoginAt = &at
	}
	return nil
}

type stubTenantRepo struct {
	tenants map[string]*models.Tenant
}

func (s *stubTenantRepo) FindBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant, ok := s.tenants[slug]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *tenant
	return &clone, nil
}

type stubSessionManager struct {
	tokens  map[string]string
	counter int
}

func newStubSessionManager() *stubSessionManager {
	return &stubSessionManager{tokens: make(map[string]string)}
}

func (s *stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	s.counter++
	token := fmt.Sprintf("refresh-%d", s.counter)
	s.tokens[accessID] = token
	return token, nil
}

func (s *stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := s.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(s.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	token, err := s.Generate(ctx, newAccessID)
	if err != nil {
		return "", "", err
	}
	return newAccessID, token, nil
}

func (s *stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	delete(s.tokens, accessID)
	return nil
}

type authFixture struct {
	svc      Service
	users    *stubUserRepo
	sessions *stubSessionManager
	tenant   *models.Tenant
	user     *models.User
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	tenant := &models.Tenant{
		ID:       uuid.New(),
		Slug:     "demo-cafe",
		Name:     "Demo Cafe",
		IsActive: true,
	}
	hash, err := security.HashPassword("correct horse", testPasswordConfig)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        "owner@demo.cafe",
		PasswordHash: hash,
		FirstName:    "Dana",
		LastName:     "Owner",
		Role:         enums.UserRoleOwner,
		IsActive:     true,
	}

	userRepo := newStubUserRepo()
	userRepo.add(user)
	sessions := newStubSessionManager()

	svc, err := NewService(ServiceParams{
		UserRepo:       userRepo,
		TenantRepo:     &stubTenantRepo{tenants: map[string]*models.Tenant{tenant.Slug: tenant}},
		SessionManager: sessions,
		JWTConfig:      testJWTConfig,
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	return &authFixture{svc: svc, users: userRepo, sessions: sessions, tenant: tenant, user: user}
}

func authErrCode(t *testing.T, err error) pkgerrors.Code {
	t.Helper()
	apiErr := pkgerrors.As(err)
	if apiErr == nil {
		t.Fatalf("expected typed error, got %v", err)
	}
	return apiErr.Code()
}

func TestNewServiceMissingDeps(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatalf("expected error for empty params")
	}
}

func TestLoginSuccess(t *testing.T) {
	fx := newAuthFixture(t)

	result, err := fx.svc.Login(context.Background(), "demo-cafe", LoginRequest{
		Email:    "Owner@Demo.Cafe",
		Password: "correct horse",
	})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("expected both tokens minted")
	}
	if result.User == nil || result.User.Email != "owner@demo.cafe" {
		t.Fatalf("expected user payload, got %+v", result.User)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig, result.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != fx.user.ID || claims.TenantID != fx.tenant.ID {
		t.Fatalf("unexpected identity claims %+v", claims)
	}
	if claims.Role != enums.UserRoleOwner || claims.Tenant != "demo-cafe" {
		t.Fatalf("unexpected role/tenant claims %+v", claims)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti in access token")
	}
	if stored := fx.sessions.tokens[claims.ID]; stored != result.RefreshToken {
		t.Fatalf("expected refresh token stored under jti")
	}
	if fx.users.byID[fx.user.ID].LastLoginAt == nil {
		t.Fatalf("expected last login recorded")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	cases := []struct {
		name   string
		slug   string
		req    LoginRequest
		code   pkgerrors.Code
		mutate func()
	}{
		{"wrong password", "demo-cafe", LoginRequest{Email: "owner@demo.cafe", Password: "nope"}, pkgerrors.CodeUnauthorized, nil},
		{"unknown email", "demo-cafe", LoginRequest{Email: "ghost@demo.cafe", Password: "correct horse"}, pkgerrors.CodeUnauthorized, nil},
		{"unknown tenant", "other-cafe", LoginRequest{Email: "owner@demo.cafe", Password: "correct horse"}, pkgerrors.CodeUnauthorized, nil},
		{"blank tenant", "  ", LoginRequest{Email: "owner@demo.cafe", Password: "correct horse"}, pkgerrors.CodeValidation, nil},
		{"inactive user", "demo-cafe", LoginRequest{Email: "owner@demo.cafe", Password: "correct horse"}, pkgerrors.CodeUnauthorized, func() {
			fx.user.IsActive = false
		}},
	}
	for _, tc := range cases {
		if tc.mutate != nil {
			tc.mutate()
		}
		_, err := fx.svc.Login(ctx, tc.slug, tc.req)
		if err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
		if code := authErrCode(t, err); code != tc.code {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.code, code)
		}
		// Credential failures must not leak which part was wrong.
		if tc.code == pkgerrors.CodeUnauthorized && !strings.Contains(err.Error(), invalidCredentialsMessage) {
			t.Fatalf("%s: expected generic message, got %v", tc.name, err)
		}
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	login, err := fx.svc.Login(ctx, "demo-cafe", LoginRequest{Email: "owner@demo.cafe", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	refreshed, err := fx.svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatalf("expected rotated token pair")
	}
	if refreshed.RefreshToken == login.RefreshToken {
		t.Fatalf("expected refresh token to rotate")
	}

	newClaims, err := pkgauth.ParseAccessToken(testJWTConfig, refreshed.AccessToken)
	if err != nil {
		t.Fatalf("parse rotated token: %v", err)
	}
	if newClaims.UserID != fx.user.ID || newClaims.TenantID != fx.tenant.ID {
		t.Fatalf("identity claims must survive rotation, got %+v", newClaims)
	}

	// The old pair is spent; replaying it must fail.
	_, err = fx.svc.Refresh(ctx, login.AccessToken, login.RefreshToken)
	if err == nil {
		t.Fatalf("expected replayed refresh to fail")
	}
	if code := authErrCode(t, err); code != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %s", code)
	}
}

func TestRefreshRejectsInvalidInputs(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	login, err := fx.svc.Login(ctx, "demo-cafe", LoginRequest{Email: "owner@demo.cafe", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if _, err := fx.svc.Refresh(ctx, "not-a-jwt", login.RefreshToken); err == nil || authErrCode(t, err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for garbage access token, got %v", err)
	}
	if _, err := fx.svc.Refresh(ctx, login.AccessToken, "forged"); err == nil || authErrCode(t, err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for forged refresh token, got %v", err)
	}

	fx.user.IsActive = false
	if _, err := fx.svc.Refresh(ctx, login.AccessToken, login.RefreshToken); err == nil || authErrCode(t, err) != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized for deactivated user, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	fx := newAuthFixture(t)
	ctx := context.Background()

	login, err := fx.svc.Login(ctx, "demo-cafe", LoginRequest{Email: "owner@demo.cafe", Password: "correct horse"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := pkgauth.ParseAccessToken(testJWTConfig, login.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}

	if err := fx.svc.Logout(ctx, claims.ID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, ok := fx.sessions.tokens[claims.ID]; ok {
		t.Fatalf("expected session revoked")
	}

	if err := fx.svc.Logout(ctx, "  "); err == nil {
		t.Fatalf("expected error for blank access id")
	}
}
