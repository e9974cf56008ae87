package repository

import (
	"context"
	"testing"

	"WaveFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferenceDefaultsToLow(t *testing.T) {
	repo := NewGormPreferenceRepository(newTestDB(t))

	quality, err := repo.Get(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, model.QualityLow, quality)
}

func TestPreferenceSetAndGet(t *testing.T) {
	repo := NewGormPreferenceRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, 42, model.QualityHigh))

	quality, err := repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, model.QualityHigh, quality)

	// Preferences are mutable at any time.
	require.NoError(t, repo.Set(ctx, 42, model.QualityLossless))
	quality, err = repo.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, model.QualityLossless, quality)
}

func TestPreferenceRejectsUnknownTier(t *testing.T) {
	repo := NewGormPreferenceRepository(newTestDB(t))

	err := repo.Set(context.Background(), 42, model.QualityTier("studio"))
	assert.Error(t, err)
}
