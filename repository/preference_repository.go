package repository

import (
	"context"
	"errors"
	"fmt"

	"WaveFM/cache"
	"WaveFM/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository defines the interface for user quality preferences.
type PreferenceRepository interface {
	// Get returns the user's preferred quality tier, defaulting to
	// QualityLow when no preference is stored.
	Get(ctx context.Context, userID int64) (model.QualityTier, error)
	Set(ctx context.Context, userID int64, quality model.QualityTier) error
}

// gormPreferenceRepository implements PreferenceRepository with GORM plus a
// Redis read-through cache.
type gormPreferenceRepository struct {
	db *gorm.DB
}

// NewGormPreferenceRepository creates a GORM-backed preference repository.
func NewGormPreferenceRepository(db *gorm.DB) PreferenceRepository {
	return &gormPreferenceRepository{db: db}
}

func (r *gormPreferenceRepository) Get(ctx context.Context, userID int64) (model.QualityTier, error) {
	if tier, ok := cache.GetPreferenceCache(ctx, userID); ok {
		return tier, nil
	}

	var pref model.UserQualityPreference
	err := r.db.WithContext(ctx).First(&pref, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.QualityLow, nil
		}
		return "", fmt.Errorf("failed to load preference for user %d: %w", userID, err)
	}

	if !pref.Quality.Valid() {
		return model.QualityLow, nil
	}

	cache.SetPreferenceCache(ctx, userID, pref.Quality)
	return pref.Quality, nil
}

func (r *gormPreferenceRepository) Set(ctx context.Context, userID int64, quality model.QualityTier) error {
	if !quality.Valid() {
		return fmt.Errorf("unknown quality tier %q", quality)
	}

	pref := &model.UserQualityPreference{UserID: userID, Quality: quality}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"quality", "updated_at"}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("failed to save preference for user %d: %w", userID, err)
	}

	cache.SetPreferenceCache(ctx, userID, quality)
	return nil
}
