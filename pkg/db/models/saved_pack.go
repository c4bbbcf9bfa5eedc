package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/alihamzakhan/bazaargo-backend/pkg/db/types"
)

// SavedPack is a user-named ration list kept locally so it can be re-quoted
// against vendors at any time. Item names only; prices are always requoted.
type SavedPack struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index:saved_packs_user_id_idx;uniqueIndex:saved_packs_user_name_key"`
	Name      string             `gorm:"column:name;not null;uniqueIndex:saved_packs_user_name_key"`
	ItemNames dbtypes.StringList `gorm:"column:item_names;type:text;not null"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
