package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	pkgAuth "github.com/alihamzakhan/bazaargo-backend/pkg/auth"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
)

type stubVerifier struct {
	ok  bool
	err error
}

func (s *stubVerifier) HasSession(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	return s.ok, s.err
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "bazaargo", ExpirationMinutes: 60}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func mintToken(t *testing.T, userID, sessionID uuid.UUID) string {
	t.Helper()
	signed, err := pkgAuth.MintAccessToken(testJWTConfig(), time.Now(), pkgAuth.AccessTokenPayload{
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return signed
}

func TestAuthSeedsContext(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	sessionID := uuid.New()

	var seenUser, seenSession string
	handler := Auth(testJWTConfig(), &stubVerifier{ok: true}, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seenUser = UserIDFromContext(r.Context())
			seenSession = SessionIDFromContext(r.Context())
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, userID, sessionID))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", rec.Code, rec.Body.String())
	}
	if seenUser != userID.String() || seenSession != sessionID.String() {
		t.Fatalf("context not seeded: user=%q session=%q", seenUser, seenSession)
	}
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	t.Parallel()

	handler := Auth(testJWTConfig(), nil, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestAuthRejectsGarbageToken(t *testing.T) {
	t.Parallel()

	handler := Auth(testJWTConfig(), nil, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestAuthRejectsRevokedSession(t *testing.T) {
	t.Parallel()

	handler := Auth(testJWTConfig(), &stubVerifier{ok: false}, testLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, uuid.New(), uuid.New()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}
