package storage

import (
	"fmt"

	"WaveFM/model"
)

// Object key layout. The cleanup path bulk-deletes by asset prefix, so every
// rendition object must live under AssetPrefix(assetID).
//
//	hls/{assetID}/{quality}/{assetID}_{quality}.m3u8
//	hls/{assetID}/{quality}/{assetID}_{quality}_{NNN}.ts

const (
	hlsRoot    = "hls/"
	sourceRoot = "audio/"
)

// AssetPrefix returns the remote prefix covering every rendition of an asset.
func AssetPrefix(assetID string) string {
	return hlsRoot + assetID + "/"
}

// RenditionPrefix returns the remote prefix for one asset's quality tier.
func RenditionPrefix(assetID string, quality model.QualityTier) string {
	return fmt.Sprintf("%s%s/%s/", hlsRoot, assetID, quality)
}

// PlaylistName returns the playlist file name for one rendition.
func PlaylistName(assetID string, quality model.QualityTier) string {
	return fmt.Sprintf("%s_%s.m3u8", assetID, quality)
}

// PlaylistKey returns the full remote key of one rendition's playlist.
func PlaylistKey(assetID string, quality model.QualityTier) string {
	return RenditionPrefix(assetID, quality) + PlaylistName(assetID, quality)
}

// SegmentFilePattern returns the ffmpeg segment file name pattern for one
// rendition, with a zero-padded 3-digit segment index.
func SegmentFilePattern(assetID string, quality model.QualityTier) string {
	return fmt.Sprintf("%s_%s_%%03d.ts", assetID, quality)
}

// SourceKey returns the remote key of an asset's original audio blob.
func SourceKey(assetID string) string {
	return sourceRoot + assetID
}
