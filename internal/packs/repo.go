package packs

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alihamzakhan/bazaargo-backend/pkg/db"
	"github.com/alihamzakhan/bazaargo-backend/pkg/db/models"
	dbtypes "github.com/alihamzakhan/bazaargo-backend/pkg/db/types"
	pkgerrors "github.com/alihamzakhan/bazaargo-backend/pkg/errors"
)

// Repository encapsulates saved pack persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a saved pack repository bound to the provided gorm DB.
func NewRepository(conn *gorm.DB) *Repository {
	return &Repository{db: conn}
}

// Save inserts a named pack for the user. Pack names are unique per user.
func (r *Repository) Save(ctx context.Context, userID uuid.UUID, name string, itemNames []string) (models.SavedPack, error) {
	pack := models.SavedPack{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		ItemNames: dbtypes.StringList(itemNames),
	}

	if err := r.db.WithContext(ctx).Create(&pack).Error; err != nil {
		if db.IsUniqueViolation(err, "saved_packs_user_name_key") {
			return models.SavedPack{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "pack name already in use")
		}
		return models.SavedPack{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save pack")
	}
	return pack, nil
}

// List returns the user's saved packs, newest first.
func (r *Repository) List(ctx context.Context, userID uuid.UUID) ([]models.SavedPack, error) {
	var packs []models.SavedPack
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&packs).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list packs")
	}
	return packs, nil
}

// Get fetches one saved pack, scoped to the owning user.
func (r *Repository) Get(ctx context.Context, userID, packID uuid.UUID) (models.SavedPack, error) {
	var pack models.SavedPack
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", packID, userID).
		First(&pack).
		Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.SavedPack{}, pkgerrors.New(pkgerrors.CodeNotFound, "pack not found")
	}
	if err != nil {
		return models.SavedPack{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "get pack")
	}
	return pack, nil
}

// Delete removes the user's pack. Deleting an absent pack is a no-op.
func (r *Repository) Delete(ctx context.Context, userID, packID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", packID, userID).
		Delete(&models.SavedPack{}).
		Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete pack")
	}
	return nil
}
