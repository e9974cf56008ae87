package hls

import (
	"errors"

	"WaveFM/model"
)

// ErrNoRendition indicates an asset has no rendition yet. This is a
// reportable condition for the read path, not an exceptional one.
var ErrNoRendition = errors.New("no rendition available for asset")

// Selection is the negotiated quality for one playback request.
type Selection struct {
	Quality model.QualityTier
	Matched bool // true when the preferred tier itself was served
}

// Negotiate selects the tier to serve given the client's preference and the
// tiers actually available. Exact match wins; otherwise the closest
// available tier at or below the preference, then the closest above it.
// An unrecognized preference negotiates from the lowest tier's position.
// Pure function over the caller-supplied state.
func Negotiate(preferred model.QualityTier, available []model.QualityTier) (Selection, error) {
	if len(available) == 0 {
		return Selection{}, ErrNoRendition
	}

	availableSet := make(map[model.QualityTier]bool, len(available))
	for _, tier := range available {
		if tier.Valid() {
			availableSet[tier] = true
		}
	}

	if availableSet[preferred] {
		return Selection{Quality: preferred, Matched: true}, nil
	}

	start := preferred.Ordinal()
	if start < 0 {
		start = model.QualityLow.Ordinal()
	}

	// Scan downward toward the lowest tier first.
	for i := start; i >= 0; i-- {
		if tier := model.TierAt(i); availableSet[tier] {
			return Selection{Quality: tier}, nil
		}
	}

	// Nothing at or below the preference; scan upward.
	for i := start + 1; i < model.TierCount(); i++ {
		if tier := model.TierAt(i); availableSet[tier] {
			return Selection{Quality: tier}, nil
		}
	}

	// Reachable only when every available tier was unrecognized.
	return Selection{}, ErrNoRendition
}
