package hls

import (
	"testing"

	"WaveFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name        string
		preferred   model.QualityTier
		available   []model.QualityTier
		wantQuality model.QualityTier
		wantMatched bool
	}{
		{
			name:        "exact match",
			preferred:   model.QualityLossless,
			available:   []model.QualityTier{model.QualityLossless},
			wantQuality: model.QualityLossless,
			wantMatched: true,
		},
		{
			name:        "falls back to closest below preference",
			preferred:   model.QualityMedium,
			available:   []model.QualityTier{model.QualityLow, model.QualityHigh},
			wantQuality: model.QualityLow,
		},
		{
			name:        "scans upward when nothing at or below",
			preferred:   model.QualityLow,
			available:   []model.QualityTier{model.QualityHigh, model.QualityLossless},
			wantQuality: model.QualityHigh,
		},
		{
			name:        "prefers high over lossless when scanning down from lossless",
			preferred:   model.QualityLossless,
			available:   []model.QualityTier{model.QualityLow, model.QualityHigh},
			wantQuality: model.QualityHigh,
		},
		{
			name:        "unrecognized preference negotiates from low",
			preferred:   model.QualityTier("studio"),
			available:   []model.QualityTier{model.QualityMedium, model.QualityHigh},
			wantQuality: model.QualityMedium,
		},
		{
			name:        "single tier always wins",
			preferred:   model.QualityHigh,
			available:   []model.QualityTier{model.QualityLow},
			wantQuality: model.QualityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			selection, err := Negotiate(tt.preferred, tt.available)
			require.NoError(t, err)
			assert.Equal(t, tt.wantQuality, selection.Quality)
			assert.Equal(t, tt.wantMatched, selection.Matched)
		})
	}
}

func TestNegotiateNoRenditions(t *testing.T) {
	_, err := Negotiate(model.QualityLow, nil)
	assert.ErrorIs(t, err, ErrNoRendition)

	_, err = Negotiate(model.QualityLow, []model.QualityTier{})
	assert.ErrorIs(t, err, ErrNoRendition)
}
