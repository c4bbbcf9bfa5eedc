package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alihamzakhan/bazaargo-backend/pkg/db/models"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
)

// Repository encapsulates session persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a session repository bound to the provided gorm DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// Create inserts a session row.
func (r *Repository) Create(ctx context.Context, session models.Session) error {
	if err := r.db.WithContext(ctx).Create(&session).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create session")
	}
	return nil
}

// ActiveByUser returns the newest live session for the user.
func (r *Repository) ActiveByUser(ctx context.Context, userID uuid.UUID, now time.Time) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Order("created_at DESC").
		First(&session).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err != nil {
		return models.Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	return session, nil
}

// Get returns a session by id.
func (r *Repository) Get(ctx context.Context, sessionID uuid.UUID) (models.Session, error) {
	var session models.Session
	err := r.db.WithContext(ctx).
		Where("id = ?", sessionID).
		First(&session).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Session{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "no active session")
	}
	if err != nil {
		return models.Session{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load session")
	}
	return session, nil
}

// RevokeAllForUser marks every live session of the user as revoked.
func (r *Repository) RevokeAllForUser(ctx context.Context, userID uuid.UUID, now time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		Update("revoked_at", now).
		Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke sessions")
	}
	return nil
}
