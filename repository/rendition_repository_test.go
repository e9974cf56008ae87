package repository

import (
	"context"
	"testing"

	"WaveFM/model"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.StreamRendition{}, &model.UserQualityPreference{}))
	return db
}

func TestRenditionUpsertIsIdempotent(t *testing.T) {
	repo := NewGormRenditionRepository(newTestDB(t))
	ctx := context.Background()

	first := &model.StreamRendition{
		AssetID:      "asset-1",
		Quality:      model.QualityHigh,
		PlaylistURL:  "https://cdn.example.com/hls/asset-1/high/asset-1_high.m3u8",
		SegmentCount: 12,
	}
	require.NoError(t, repo.Upsert(ctx, first))

	second := &model.StreamRendition{
		AssetID:      "asset-1",
		Quality:      model.QualityHigh,
		PlaylistURL:  "https://cdn.example.com/hls/asset-1/high/asset-1_high.m3u8?v=2",
		SegmentCount: 13,
	}
	require.NoError(t, repo.Upsert(ctx, second))

	count, err := repo.CountByAsset(ctx, "asset-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count, "upsert must not duplicate the (asset, quality) row")

	renditions, err := repo.ListByAsset(ctx, "asset-1")
	require.NoError(t, err)
	require.Len(t, renditions, 1)
	assert.Equal(t, second.PlaylistURL, renditions[0].PlaylistURL)
	assert.Equal(t, 13, renditions[0].SegmentCount)
}

func TestRenditionListAndCountByAsset(t *testing.T) {
	repo := NewGormRenditionRepository(newTestDB(t))
	ctx := context.Background()

	for _, tier := range []model.QualityTier{model.QualityLow, model.QualityLossless} {
		require.NoError(t, repo.Upsert(ctx, &model.StreamRendition{
			AssetID:      "asset-1",
			Quality:      tier,
			PlaylistURL:  "https://example.com/" + string(tier),
			SegmentCount: 3,
		}))
	}
	require.NoError(t, repo.Upsert(ctx, &model.StreamRendition{
		AssetID:      "asset-2",
		Quality:      model.QualityLow,
		PlaylistURL:  "https://example.com/other",
		SegmentCount: 3,
	}))

	renditions, err := repo.ListByAsset(ctx, "asset-1")
	require.NoError(t, err)
	assert.Len(t, renditions, 2)

	count, err := repo.CountByAsset(ctx, "asset-2")
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountByAsset(ctx, "asset-3")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRenditionDeleteByAsset(t *testing.T) {
	repo := NewGormRenditionRepository(newTestDB(t))
	ctx := context.Background()

	for _, tier := range model.AllTiers() {
		require.NoError(t, repo.Upsert(ctx, &model.StreamRendition{
			AssetID:      "asset-1",
			Quality:      tier,
			PlaylistURL:  "https://example.com/" + string(tier),
			SegmentCount: 3,
		}))
	}

	require.NoError(t, repo.DeleteByAsset(ctx, "asset-1"))

	count, err := repo.CountByAsset(ctx, "asset-1")
	require.NoError(t, err)
	assert.Zero(t, count, "cleanup must leave no rendition rows behind")

	// Deleting an asset with no rows is not an error.
	require.NoError(t, repo.DeleteByAsset(ctx, "asset-1"))
}
