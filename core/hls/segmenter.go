package hls

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"WaveFM/logger"
	"WaveFM/model"
	"WaveFM/storage"
)

// maxEncodeTime is the hard ceiling for one tier's encode subprocess. One
// stuck encode must not stall a worker indefinitely.
const maxEncodeTime = time.Hour

// SegmentOutput describes one tier's finished local HLS output.
type SegmentOutput struct {
	PlaylistPath string
	SegmentCount int
}

// Segmenter produces an HLS playlist and segment files for one quality tier.
type Segmenter interface {
	Segment(ctx context.Context, sourcePath, outDir, assetID string, quality model.QualityTier) (*SegmentOutput, error)
}

// FFmpegSegmenter implements Segmenter by invoking ffmpeg as a subprocess.
type FFmpegSegmenter struct {
	ffmpegPath string
	timeout    time.Duration
}

// NewFFmpegSegmenter creates a new FFmpegSegmenter. Timeouts above the
// one-hour ceiling (or non-positive) are clamped to it.
func NewFFmpegSegmenter(ffmpegPath string, timeout time.Duration) *FFmpegSegmenter {
	if timeout <= 0 || timeout > maxEncodeTime {
		timeout = maxEncodeTime
	}
	return &FFmpegSegmenter{ffmpegPath: ffmpegPath, timeout: timeout}
}

// Segment transcodes sourcePath to AAC and emits an HLS playlist plus .ts
// segments into outDir, overwriting any stale output. Success requires a
// zero exit, an existing playlist and at least one segment.
func (s *FFmpegSegmenter) Segment(ctx context.Context, sourcePath, outDir, assetID string, quality model.QualityTier) (*SegmentOutput, error) {
	info, err := os.Stat(sourcePath)
	if err != nil {
		return nil, fmt.Errorf("source file %s not readable: %w", sourcePath, err)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("source file %s is empty", sourcePath)
	}

	profile, ok := quality.Profile()
	if !ok {
		return nil, fmt.Errorf("unknown quality tier %q", quality)
	}

	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	playlistPath := filepath.Join(outDir, storage.PlaylistName(assetID, quality))
	segmentPattern := filepath.Join(outDir, storage.SegmentFilePattern(assetID, quality))

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	args := []string{
		"-y",
		"-i", sourcePath,
		"-vn",
		"-c:a", "aac",
		"-b:a", profile.Bitrate,
		"-ar", strconv.Itoa(profile.SampleRate),
		"-hls_time", strconv.Itoa(profile.SegmentSeconds),
		"-hls_playlist_type", "vod",
		"-hls_list_size", "0",
		"-hls_segment_filename", segmentPattern,
		"-f", "hls",
		playlistPath,
	}

	cmd := exec.CommandContext(ctx, s.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	// A killed encoder can leave children holding stderr open; don't let
	// that turn the timeout into an indefinite Wait.
	cmd.WaitDelay = 3 * time.Second

	logger.Debug("starting encode",
		logger.String("assetId", assetID),
		logger.String("quality", string(quality)),
		logger.String("bitrate", profile.Bitrate))

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("encode for %s timed out after %s: %w", sourcePath, s.timeout, ctx.Err())
		}
		return nil, fmt.Errorf("ffmpeg execution failed for %s: %w\nFFmpeg Error: %s", sourcePath, err, stderr.String())
	}

	if _, err := os.Stat(playlistPath); err != nil {
		return nil, fmt.Errorf("ffmpeg exited cleanly but playlist %s is missing: %w", playlistPath, err)
	}

	segments, err := filepath.Glob(filepath.Join(outDir, "*.ts"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan segments in %s: %w", outDir, err)
	}
	if len(segments) == 0 {
		return nil, fmt.Errorf("no segments produced in %s", outDir)
	}

	return &SegmentOutput{
		PlaylistPath: playlistPath,
		SegmentCount: len(segments),
	}, nil
}
