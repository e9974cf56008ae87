package model

import "time"

// StreamRendition records one successfully produced HLS rendition of one
// asset at one quality tier. At most one row exists per (asset, quality)
// pair; re-conversion overwrites it.
type StreamRendition struct {
	ID           uint64      `gorm:"primaryKey" json:"id"`
	AssetID      string      `gorm:"size:64;not null;uniqueIndex:idx_asset_quality" json:"assetId"`
	Quality      QualityTier `gorm:"size:16;not null;uniqueIndex:idx_asset_quality" json:"quality"`
	PlaylistURL  string      `gorm:"size:512;not null" json:"playlistUrl"`
	SegmentCount int         `gorm:"not null" json:"segmentCount"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// TableName overrides the GORM default.
func (StreamRendition) TableName() string {
	return "stream_renditions"
}

// UserQualityPreference is a per-user default quality tier selection.
// Absence means QualityLow.
type UserQualityPreference struct {
	UserID    int64       `gorm:"primaryKey" json:"userId"`
	Quality   QualityTier `gorm:"size:16;not null" json:"quality"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// TableName overrides the GORM default.
func (UserQualityPreference) TableName() string {
	return "user_quality_preferences"
}
