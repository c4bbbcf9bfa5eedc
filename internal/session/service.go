// Package session owns the login lifecycle: exchanging credentials with the
// upstream platform, persisting the proxied token, and minting local JWTs.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alihamzakhan/bazaargo-backend/pkg/auth"
	"github.com/alihamzakhan/bazaargo-backend/pkg/config"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db/models"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
	"github.com/alihamzakhan/bazaargo-backend/pkg/upstream"
)

// platformAuth is the slice of the upstream client the service needs.
type platformAuth interface {
	Login(ctx context.Context, creds upstream.Credentials) (upstream.Session, error)
	Logout(ctx context.Context, token string) error
}

// sessionStore is the persistence surface for session rows.
type sessionStore interface {
	Create(ctx context.Context, session models.Session) error
	ActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (models.Session, error)
	RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error
}

// cartTeardown discards per-user cart state when a session ends.
type cartTeardown interface {
	Teardown(userID uuid.UUID)
}

// LoginResult carries the locally minted access token for the client.
type LoginResult struct {
	AccessToken string    `json:"access_token"`
	UserID      uuid.UUID `json:"user_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// Service exposes the session lifecycle.
type Service interface {
	Login(ctx context.Context, email, password string) (LoginResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
	Token(ctx context.Context, userID uuid.UUID) (string, error)
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	platform platformAuth
	store    sessionStore
	carts    cartTeardown
	jwtCfg   config.JWTConfig
	logger   *logger.Logger
	now      func() time.Time
}

// NewService builds the session service.
func NewService(platform platformAuth, store sessionStore, carts cartTeardown, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if platform == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "platform client required")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session store required")
	}
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart teardown required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "logger required")
	}
	return &service{
		platform: platform,
		store:    store,
		carts:    carts,
		jwtCfg:   jwtCfg,
		logger:   logg,
		now:      time.Now,
	}, nil
}

// Login exchanges credentials with the platform, stores the upstream token,
// and mints the local access token the client uses from here on.
func (s *service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	remote, err := s.platform.Login(ctx, upstream.Credentials{Email: email, Password: password})
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now()
	expiresAt := remote.ExpiresAt
	if expiresAt.IsZero() || expiresAt.Before(now) {
		expiresAt = now.Add(s.jwtCfg.TokenTTL())
	}

	record := models.Session{
		ID:            uuid.New(),
		UserID:        remote.UserID,
		UpstreamToken: remote.Token,
		ExpiresAt:     expiresAt,
	}
	if err := s.store.Create(ctx, record); err != nil {
		return LoginResult{}, err
	}

	signed, err := auth.MintAccessToken(s.jwtCfg, now, auth.AccessTokenPayload{
		UserID:    remote.UserID,
		SessionID: record.ID,
	})
	if err != nil {
		return LoginResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	s.logger.Info(s.logger.WithUserID(ctx, remote.UserID.String()), "session established")

	return LoginResult{
		AccessToken: signed,
		UserID:      remote.UserID,
		ExpiresAt:   expiresAt,
	}, nil
}

// Logout revokes the platform token, drops the stored sessions, and tears
// down the user's cart. Platform revocation is best effort: a dead platform
// must not trap the user in a logged-in state.
func (s *service) Logout(ctx context.Context, userID uuid.UUID) error {
	now := s.now()

	if record, err := s.store.ActiveByUser(ctx, userID, now); err == nil {
		if err := s.platform.Logout(ctx, record.UpstreamToken); err != nil {
			s.logger.Warn(ctx, "platform logout failed")
		}
	}

	if err := s.store.RevokeAllForUser(ctx, userID, now); err != nil {
		return err
	}

	s.carts.Teardown(userID)
	return nil
}

// Token resolves the upstream bearer token for a user. Missing or expired
// sessions surface as unauthorized so the HTTP layer returns 401.
func (s *service) Token(ctx context.Context, userID uuid.UUID) (string, error) {
	if userID == uuid.Nil {
		return "", pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated")
	}
	record, err := s.store.ActiveByUser(ctx, userID, s.now())
	if err != nil {
		return "", err
	}
	return record.UpstreamToken, nil
}

// Invalidate drops the user's sessions and cart without touching the
// platform. Used when the platform already rejected the stored token.
func (s *service) Invalidate(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.RevokeAllForUser(ctx, userID, s.now()); err != nil {
		return err
	}
	s.carts.Teardown(userID)
	return nil
}
