package session

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/alihamzakhan/bazaargo-backend/pkg/auth"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db/models"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/upstream"
)

type stubPlatform struct {
	session    upstream.Session
	loginErr   error
	logoutErr  error
	logoutTok  string
	loginCalls int
}

func (s *stubPlatform) Login(ctx context.Context, creds upstream.Credentials) (upstream.Session, error) {
	s.loginCalls++
	if s.loginErr != nil {
		return upstream.Session{}, s.loginErr
	}
	return s.session, nil
}

func (s *stubPlatform) Logout(ctx context.Context, token string) error {
	s.logoutTok = token
	return s.logoutErr
}

type memStore struct {
	sessions  []models.Session
	createErr error
}

func (m *memStore) Create(ctx context.Context, session models.Session) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.sessions = append(m.sessions, session)
	return nil
}

func (m *memStore) ActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (models.Session, error) {
	for i := len(m.sessions) - 1; i >= 0; i-- {
		s := m.sessions[i]
		if s.UserID == userID && s.Active(now) {
			return s, nil
		}
	}
	return models.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
}

func (m *memStore) RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	for i := range m.sessions {
		if m.sessions[i].UserID == userID && m.sessions[i].RevokedAt == nil {
			at := now
			m.sessions[i].RevokedAt = &at
		}
	}
	return nil
}

type stubCarts struct {
	tornDown []uuid.UUID
}

func (s *stubCarts) Teardown(userID uuid.UUID) {
	s.tornDown = append(s.tornDown, userID)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "bazaargo", ExpirationMinutes: 60}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestService(t *testing.T, platform *stubPlatform, store *memStore, carts *stubCarts) Service {
	t.Helper()
	svc, err := NewService(platform, store, carts, testJWTConfig(), testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestLoginMintsParseableToken(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	platform := &stubPlatform{session: upstream.Session{
		Token:     "platform-token",
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	store := &memStore{}

	svc := newTestService(t, platform, store, &stubCarts{})

	result, err := svc.Login(context.Background(), "user@example.com", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.UserID != userID {
		t.Fatalf("unexpected user id %s", result.UserID)
	}

	claims, err := auth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	if err != nil {
		t.Fatalf("parse minted token: %v", err)
	}
	if claims.UserID != userID {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if len(store.sessions) != 1 || store.sessions[0].UpstreamToken != "platform-token" {
		t.Fatalf("expected stored upstream token, got %+v", store.sessions)
	}
}

func TestLoginPropagatesPlatformRejection(t *testing.T) {
	t.Parallel()

	platform := &stubPlatform{loginErr: pkgerrors.New(pkgerrors.CodeUnauthorized, "bad credentials")}
	svc := newTestService(t, platform, &memStore{}, &stubCarts{})

	_, err := svc.Login(context.Background(), "user@example.com", "wrong")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestTokenResolvesActiveSession(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &memStore{sessions: []models.Session{{
		ID:            uuid.New(),
		UserID:        userID,
		UpstreamToken: "live-token",
		ExpiresAt:     time.Now().Add(time.Hour),
	}}}

	svc := newTestService(t, &stubPlatform{}, store, &stubCarts{})

	token, err := svc.Token(context.Background(), userID)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if token != "live-token" {
		t.Fatalf("unexpected token %q", token)
	}
}

func TestTokenExpiredSessionUnauthorized(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &memStore{sessions: []models.Session{{
		ID:            uuid.New(),
		UserID:        userID,
		UpstreamToken: "stale",
		ExpiresAt:     time.Now().Add(-time.Minute),
	}}}

	svc := newTestService(t, &stubPlatform{}, store, &stubCarts{})

	_, err := svc.Token(context.Background(), userID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLogoutRevokesAndTearsDownCart(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &memStore{sessions: []models.Session{{
		ID:            uuid.New(),
		UserID:        userID,
		UpstreamToken: "live-token",
		ExpiresAt:     time.Now().Add(time.Hour),
	}}}
	platform := &stubPlatform{}
	carts := &stubCarts{}

	svc := newTestService(t, platform, store, carts)

	if err := svc.Logout(context.Background(), userID); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if platform.logoutTok != "live-token" {
		t.Fatalf("expected platform revocation with stored token, got %q", platform.logoutTok)
	}
	if store.sessions[0].RevokedAt == nil {
		t.Fatal("expected session revoked")
	}
	if len(carts.tornDown) != 1 || carts.tornDown[0] != userID {
		t.Fatalf("expected cart teardown, got %v", carts.tornDown)
	}

	if _, err := svc.Token(context.Background(), userID); err == nil {
		t.Fatal("expected token resolution to fail after logout")
	}
}

func TestLogoutSurvivesPlatformFailure(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &memStore{sessions: []models.Session{{
		ID:            uuid.New(),
		UserID:        userID,
		UpstreamToken: "live-token",
		ExpiresAt:     time.Now().Add(time.Hour),
	}}}
	platform := &stubPlatform{logoutErr: errors.New("platform down")}

	svc := newTestService(t, platform, store, &stubCarts{})

	if err := svc.Logout(context.Background(), userID); err != nil {
		t.Fatalf("logout must succeed despite platform failure: %v", err)
	}
	if store.sessions[0].RevokedAt == nil {
		t.Fatal("expected local revocation regardless of platform outcome")
	}
}

func TestInvalidateSkipsPlatform(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	store := &memStore{sessions: []models.Session{{
		ID:            uuid.New(),
		UserID:        userID,
		UpstreamToken: "rejected-token",
		ExpiresAt:     time.Now().Add(time.Hour),
	}}}
	platform := &stubPlatform{}
	carts := &stubCarts{}

	svc := newTestService(t, platform, store, carts)

	if err := svc.Invalidate(context.Background(), userID); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if platform.logoutTok != "" {
		t.Fatal("invalidate must not call the platform")
	}
	if store.sessions[0].RevokedAt == nil || len(carts.tornDown) != 1 {
		t.Fatal("expected local teardown")
	}
}
