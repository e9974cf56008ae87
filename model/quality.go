package model

// QualityTier names one discrete encoding profile an asset may be rendered at.
type QualityTier string

const (
	QualityLow      QualityTier = "low"
	QualityMedium   QualityTier = "medium"
	QualityHigh     QualityTier = "high"
	QualityLossless QualityTier = "lossless"
)

// tierOrder is the total order of tiers from lowest to highest fidelity.
// The negotiator's fallback scan depends on this ordering.
var tierOrder = []QualityTier{QualityLow, QualityMedium, QualityHigh, QualityLossless}

// EncoderProfile holds the fixed encoder parameters for one quality tier.
type EncoderProfile struct {
	Bitrate        string // e.g. "128k"
	SampleRate     int    // in Hz
	SegmentSeconds int    // HLS segment duration
}

// profiles is the fixed tier-to-parameters table. The values are load-bearing
// for bit-compatible output and must not drift.
var profiles = map[QualityTier]EncoderProfile{
	QualityLow:      {Bitrate: "64k", SampleRate: 22050, SegmentSeconds: 10},
	QualityMedium:   {Bitrate: "128k", SampleRate: 44100, SegmentSeconds: 10},
	QualityHigh:     {Bitrate: "320k", SampleRate: 44100, SegmentSeconds: 10},
	QualityLossless: {Bitrate: "1411k", SampleRate: 44100, SegmentSeconds: 10},
}

// AllTiers returns every configured quality tier, lowest fidelity first.
func AllTiers() []QualityTier {
	tiers := make([]QualityTier, len(tierOrder))
	copy(tiers, tierOrder)
	return tiers
}

// Profile returns the encoder parameters for the tier. The second return
// value is false for an unrecognized tier.
func (q QualityTier) Profile() (EncoderProfile, bool) {
	p, ok := profiles[q]
	return p, ok
}

// Ordinal returns the tier's position in the fidelity order, or -1 when the
// tier is unrecognized.
func (q QualityTier) Ordinal() int {
	for i, t := range tierOrder {
		if t == q {
			return i
		}
	}
	return -1
}

// Valid reports whether the tier is one of the configured tiers.
func (q QualityTier) Valid() bool {
	return q.Ordinal() >= 0
}

// TierAt returns the tier at the given ordinal position.
func TierAt(ordinal int) QualityTier {
	return tierOrder[ordinal]
}

// TierCount returns the number of configured tiers.
func TierCount() int {
	return len(tierOrder)
}
