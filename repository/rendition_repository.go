package repository

import (
	"context"
	"fmt"

	"WaveFM/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RenditionRepository defines the interface for stream rendition persistence.
type RenditionRepository interface {
	// Upsert creates the rendition row or overwrites the existing row for
	// the same (asset, quality) pair. Re-conversion must be idempotent.
	Upsert(ctx context.Context, rendition *model.StreamRendition) error
	ListByAsset(ctx context.Context, assetID string) ([]*model.StreamRendition, error)
	CountByAsset(ctx context.Context, assetID string) (int64, error)
	DeleteByAsset(ctx context.Context, assetID string) error
}

// gormRenditionRepository implements RenditionRepository with GORM.
type gormRenditionRepository struct {
	db *gorm.DB
}

// NewGormRenditionRepository creates a GORM-backed rendition repository.
func NewGormRenditionRepository(db *gorm.DB) RenditionRepository {
	return &gormRenditionRepository{db: db}
}

func (r *gormRenditionRepository) Upsert(ctx context.Context, rendition *model.StreamRendition) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "quality"}},
		DoUpdates: clause.AssignmentColumns([]string{"playlist_url", "segment_count", "updated_at"}),
	}).Create(rendition).Error
	if err != nil {
		return fmt.Errorf("failed to upsert rendition for asset %s quality %s: %w",
			rendition.AssetID, rendition.Quality, err)
	}
	return nil
}

func (r *gormRenditionRepository) ListByAsset(ctx context.Context, assetID string) ([]*model.StreamRendition, error) {
	var renditions []*model.StreamRendition
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Order("quality").
		Find(&renditions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list renditions for asset %s: %w", assetID, err)
	}
	return renditions, nil
}

func (r *gormRenditionRepository) CountByAsset(ctx context.Context, assetID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.StreamRendition{}).
		Where("asset_id = ?", assetID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count renditions for asset %s: %w", assetID, err)
	}
	return count, nil
}

func (r *gormRenditionRepository) DeleteByAsset(ctx context.Context, assetID string) error {
	err := r.db.WithContext(ctx).
		Where("asset_id = ?", assetID).
		Delete(&model.StreamRendition{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete renditions for asset %s: %w", assetID, err)
	}
	return nil
}
