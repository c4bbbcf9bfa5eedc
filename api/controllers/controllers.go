// Package controllers adapts HTTP requests onto the storefront services.
package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/alihamzakhan/bazaargo-backend/api/middleware"
	"github.com/alihamzakhan/bazaargo-backend/api/responses"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
	"github.com/alihamzakhan/bazaargo-backend/pkg/logger"
)

// sessionInvalidator drops local session state when the platform rejects the
// stored token.
type sessionInvalidator interface {
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// userFromContext parses the authenticated user id the auth middleware seeded.
func userFromContext(ctx context.Context) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "not authenticated")
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	return userID, nil
}

// writeServiceError surfaces a service failure. An unauthorized result means
// the platform no longer honors the stored token, so the local session and
// cart are dropped and the client starts a fresh login.
func writeServiceError(ctx context.Context, logg *logger.Logger, sessions sessionInvalidator, w http.ResponseWriter, userID uuid.UUID, err error) {
	if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized && sessions != nil && userID != uuid.Nil {
		if ierr := sessions.Invalidate(ctx, userID); ierr != nil && logg != nil {
			logg.Warn(ctx, "session invalidation failed")
		}
	}
	responses.WriteError(ctx, logg, w, err)
}
