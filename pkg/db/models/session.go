package models

import (
	"time"

	"github.com/google/uuid"
)

// Session maps a locally issued access token to the upstream platform token
// it proxies. Expired or revoked rows mean the user must log in again.
type Session struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:sessions_user_id_idx"`
	UpstreamToken string    `gorm:"column:upstream_token;not null"`
	ExpiresAt     time.Time `gorm:"column:expires_at;not null"`
	RevokedAt     *time.Time `gorm:"column:revoked_at"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Active reports whether the session can still back platform calls.
func (s Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
