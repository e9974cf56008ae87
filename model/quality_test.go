package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTierOrder(t *testing.T) {
	tiers := AllTiers()
	require.Equal(t, []QualityTier{QualityLow, QualityMedium, QualityHigh, QualityLossless}, tiers)

	for i, tier := range tiers {
		assert.Equal(t, i, tier.Ordinal())
		assert.Equal(t, tier, TierAt(i))
		assert.True(t, tier.Valid())
	}

	assert.Equal(t, -1, QualityTier("ultra").Ordinal())
	assert.False(t, QualityTier("ultra").Valid())
	assert.Equal(t, len(tiers), TierCount())
}

func TestEncoderProfiles(t *testing.T) {
	tests := []struct {
		tier       QualityTier
		bitrate    string
		sampleRate int
	}{
		{QualityLow, "64k", 22050},
		{QualityMedium, "128k", 44100},
		{QualityHigh, "320k", 44100},
		{QualityLossless, "1411k", 44100},
	}

	for _, tt := range tests {
		t.Run(string(tt.tier), func(t *testing.T) {
			profile, ok := tt.tier.Profile()
			require.True(t, ok)
			assert.Equal(t, tt.bitrate, profile.Bitrate)
			assert.Equal(t, tt.sampleRate, profile.SampleRate)
			assert.Equal(t, 10, profile.SegmentSeconds)
		})
	}

	_, ok := QualityTier("ultra").Profile()
	assert.False(t, ok)
}
