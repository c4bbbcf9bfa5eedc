package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
)

// Verifier answers whether a session referenced by an access token is still
// live. The auth middleware consults it so revoked sessions fail before any
// platform call is attempted.
type Verifier struct {
	store *Repository
	now   func() time.Time
}

// NewVerifier builds a verifier over the session repository.
func NewVerifier(store *Repository) *Verifier {
	return &Verifier{store: store, now: time.Now}
}

// HasSession reports whether the session exists, is unrevoked, and unexpired.
func (v *Verifier) HasSession(ctx context.Context, sessionID uuid.UUID) (bool, error) {
	if sessionID == uuid.Nil {
		return false, nil
	}
	record, err := v.store.Get(ctx, sessionID)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeUnauthorized {
			return false, nil
		}
		return false, err
	}
	return record.Active(v.now()), nil
}
