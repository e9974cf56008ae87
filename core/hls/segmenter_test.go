package hls

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"WaveFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeEncoderScript installs a shell script standing in for ffmpeg. The
// playlist path is ffmpeg's final argument, which is all a stub needs to
// produce plausible output.
func writeEncoderScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "encoder.sh")
	script := "#!/bin/sh\nfor last; do :; done\ndir=$(dirname \"$last\")\n" + body
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	return path
}

func writeSourceFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source")
	require.NoError(t, os.WriteFile(path, []byte("not really audio"), 0644))
	return path
}

func TestSegmentSuccess(t *testing.T) {
	encoder := writeEncoderScript(t, `printf '#EXTM3U\n' > "$last"
printf 'x' > "$dir/asset-1_high_000.ts"
printf 'x' > "$dir/asset-1_high_001.ts"
`)
	s := NewFFmpegSegmenter(encoder, time.Minute)

	outDir := filepath.Join(t.TempDir(), "high")
	out, err := s.Segment(context.Background(), writeSourceFile(t), outDir, "asset-1", model.QualityHigh)
	require.NoError(t, err)

	assert.Equal(t, 2, out.SegmentCount)
	assert.Equal(t, filepath.Join(outDir, "asset-1_high.m3u8"), out.PlaylistPath)
}

func TestSegmentNonZeroExit(t *testing.T) {
	encoder := writeEncoderScript(t, "exit 1\n")
	s := NewFFmpegSegmenter(encoder, time.Minute)

	_, err := s.Segment(context.Background(), writeSourceFile(t), t.TempDir(), "asset-1", model.QualityLow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffmpeg execution failed")
}

func TestSegmentNoSegmentsProduced(t *testing.T) {
	// Playlist written but zero segments: still a tier failure.
	encoder := writeEncoderScript(t, `printf '#EXTM3U\n' > "$last"
`)
	s := NewFFmpegSegmenter(encoder, time.Minute)

	_, err := s.Segment(context.Background(), writeSourceFile(t), t.TempDir(), "asset-1", model.QualityLow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no segments produced")
}

func TestSegmentMissingPlaylist(t *testing.T) {
	encoder := writeEncoderScript(t, "exit 0\n")
	s := NewFFmpegSegmenter(encoder, time.Minute)

	_, err := s.Segment(context.Background(), writeSourceFile(t), t.TempDir(), "asset-1", model.QualityLow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "playlist")
}

func TestSegmentTimeoutKillsEncoder(t *testing.T) {
	encoder := writeEncoderScript(t, "sleep 10\n")
	s := NewFFmpegSegmenter(encoder, 200*time.Millisecond)

	start := time.Now()
	_, err := s.Segment(context.Background(), writeSourceFile(t), t.TempDir(), "asset-1", model.QualityLow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
	assert.Less(t, time.Since(start), 5*time.Second, "a stuck encoder must be killed, not waited on")
}

func TestSegmentRejectsBadSource(t *testing.T) {
	s := NewFFmpegSegmenter("ffmpeg", time.Minute)

	_, err := s.Segment(context.Background(), filepath.Join(t.TempDir(), "missing"), t.TempDir(), "asset-1", model.QualityLow)
	assert.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = s.Segment(context.Background(), empty, t.TempDir(), "asset-1", model.QualityLow)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestSegmentUnknownTier(t *testing.T) {
	s := NewFFmpegSegmenter("ffmpeg", time.Minute)

	_, err := s.Segment(context.Background(), writeSourceFile(t), t.TempDir(), "asset-1", model.QualityTier("studio"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown quality tier")
}
