package storage

import (
	"testing"

	"WaveFM/model"

	"github.com/stretchr/testify/assert"
)

// The key layout is load-bearing: cleanup bulk-deletes by prefix and
// existing clients resolve these exact paths.
func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "hls/a1/", AssetPrefix("a1"))
	assert.Equal(t, "hls/a1/medium/", RenditionPrefix("a1", model.QualityMedium))
	assert.Equal(t, "a1_medium.m3u8", PlaylistName("a1", model.QualityMedium))
	assert.Equal(t, "hls/a1/medium/a1_medium.m3u8", PlaylistKey("a1", model.QualityMedium))
	assert.Equal(t, "a1_medium_%03d.ts", SegmentFilePattern("a1", model.QualityMedium))
	assert.Equal(t, "audio/a1", SourceKey("a1"))
}

func TestContentTypeByExt(t *testing.T) {
	assert.Equal(t, "application/vnd.apple.mpegurl", contentTypeByExt("a1_low.m3u8"))
	assert.Equal(t, "video/MP2T", contentTypeByExt("a1_low_000.ts"))
	assert.Equal(t, "application/octet-stream", contentTypeByExt("notes.txt"))
}

func TestPublicURL(t *testing.T) {
	direct := &HLSStore{endpoint: "minio.local:9000", bucket: "wavefm"}
	assert.Equal(t,
		"http://minio.local:9000/wavefm/hls/a1/low/a1_low.m3u8",
		direct.PublicURL(PlaylistKey("a1", model.QualityLow)))

	secure := &HLSStore{endpoint: "minio.local:9000", bucket: "wavefm", useSSL: true}
	assert.Equal(t,
		"https://minio.local:9000/wavefm/hls/a1/low/a1_low.m3u8",
		secure.PublicURL(PlaylistKey("a1", model.QualityLow)))

	// A configured CDN domain substitutes transparently.
	cdn := &HLSStore{endpoint: "minio.local:9000", bucket: "wavefm", cdnDomain: "cdn.example.com"}
	assert.Equal(t,
		"https://cdn.example.com/hls/a1/low/a1_low.m3u8",
		cdn.PublicURL(PlaylistKey("a1", model.QualityLow)))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", formatSize(512))
	assert.Equal(t, "1.0 KB", formatSize(1024))
	assert.Equal(t, "2.5 MB", formatSize(2621440))
}
