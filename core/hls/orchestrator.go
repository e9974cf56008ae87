package hls

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"WaveFM/cache"
	"WaveFM/logger"
	"WaveFM/model"
	"WaveFM/repository"
	"WaveFM/storage"

	"github.com/google/uuid"
)

const (
	convertMaxAttempts = 3
	convertRetryDelay  = 60 * time.Second
)

// ErrConversionInProgress indicates another conversion currently holds the
// asset's lock. The trigger is safe to drop; the running conversion will
// record the renditions.
var ErrConversionInProgress = errors.New("conversion already in progress for asset")

// Uploader is the object storage boundary the orchestrator needs.
type Uploader interface {
	UploadRendition(ctx context.Context, localDir, assetID string, quality model.QualityTier) (string, error)
	RemoveAssetObjects(ctx context.Context, assetID string) error
}

// SourceFetcher downloads an asset's original audio blob.
type SourceFetcher interface {
	FetchToFile(ctx context.Context, assetID, destPath string) error
}

// TierResult records the outcome of one quality tier's conversion.
type TierResult struct {
	Quality      model.QualityTier
	PlaylistURL  string
	SegmentCount int
	Err          error
}

// ConversionResult summarizes one conversion attempt. It is ephemeral,
// reported and logged but never persisted.
type ConversionResult struct {
	AssetID   string
	Attempted int
	Succeeded int
	Tiers     []TierResult
	Elapsed   time.Duration
}

// Failed reports whether no tier at all was recorded.
func (r *ConversionResult) Failed() bool {
	return r.Succeeded == 0
}

// Orchestrator coordinates per-asset conversion across all quality tiers:
// download once, encode and upload each tier independently, record a
// rendition per successful tier.
type Orchestrator struct {
	segmenter  Segmenter
	uploader   Uploader
	source     SourceFetcher
	renditions repository.RenditionRepository
	scratchDir string
	retryDelay time.Duration
}

// NewOrchestrator wires a conversion orchestrator.
func NewOrchestrator(segmenter Segmenter, uploader Uploader, source SourceFetcher, renditions repository.RenditionRepository, scratchDir string) *Orchestrator {
	return &Orchestrator{
		segmenter:  segmenter,
		uploader:   uploader,
		source:     source,
		renditions: renditions,
		scratchDir: scratchDir,
		retryDelay: convertRetryDelay,
	}
}

// Convert runs one conversion attempt for the asset. Tier failures are
// isolated and reported in the result; only failures before the per-tier
// fan-out (source download, scratch setup) surface as an error. A result
// with zero succeeded tiers has already had its partial state cleaned up.
func (o *Orchestrator) Convert(ctx context.Context, assetID string) (*ConversionResult, error) {
	if !cache.AcquireConversionLock(ctx, assetID) {
		return nil, fmt.Errorf("%w: %s", ErrConversionInProgress, assetID)
	}
	defer cache.ReleaseConversionLock(ctx, assetID)

	start := time.Now()

	workDir := filepath.Join(o.scratchDir, fmt.Sprintf("convert-%s-%s", assetID, uuid.NewString()))
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", workDir, err)
	}
	// Scratch space is released on every exit path, including tier crashes.
	defer os.RemoveAll(workDir)

	logger.Info("conversion started",
		logger.String("assetId", assetID),
		logger.String("workDir", workDir))

	sourcePath := filepath.Join(workDir, "source")
	if err := o.source.FetchToFile(ctx, assetID, sourcePath); err != nil {
		return nil, fmt.Errorf("failed to download source for asset %s: %w", assetID, err)
	}

	tiers := model.AllTiers()
	results := make([]TierResult, len(tiers))

	var wg sync.WaitGroup
	for i, tier := range tiers {
		wg.Add(1)
		go func(i int, tier model.QualityTier) {
			defer wg.Done()
			// A panic in one tier must not cancel its siblings.
			defer func() {
				if r := recover(); r != nil {
					logger.Error("tier conversion panicked",
						logger.String("assetId", assetID),
						logger.String("quality", string(tier)),
						logger.Any("panic", r))
					results[i] = TierResult{Quality: tier, Err: fmt.Errorf("tier conversion panicked: %v", r)}
				}
			}()
			results[i] = o.convertTier(ctx, assetID, sourcePath, workDir, tier)
		}(i, tier)
	}
	wg.Wait()

	result := &ConversionResult{
		AssetID:   assetID,
		Attempted: len(tiers),
		Tiers:     results,
		Elapsed:   time.Since(start),
	}
	for _, tr := range results {
		if tr.Err == nil {
			result.Succeeded++
		}
	}

	if result.Failed() {
		logger.Error("conversion failed for every tier, cleaning up",
			logger.String("assetId", assetID),
			logger.Int("attempted", result.Attempted))
		if err := o.Cleanup(ctx, assetID); err != nil {
			logger.Error("cleanup after failed conversion failed",
				logger.String("assetId", assetID),
				logger.ErrorField(err))
		}
		return result, nil
	}

	logger.Info("conversion finished",
		logger.String("assetId", assetID),
		logger.Int("succeeded", result.Succeeded),
		logger.Int("attempted", result.Attempted),
		logger.Duration("elapsed", result.Elapsed))
	return result, nil
}

// convertTier encodes, uploads and records a single quality tier.
func (o *Orchestrator) convertTier(ctx context.Context, assetID, sourcePath, workDir string, tier model.QualityTier) TierResult {
	tierDir := filepath.Join(workDir, string(tier))

	out, err := o.segmenter.Segment(ctx, sourcePath, tierDir, assetID, tier)
	if err != nil {
		logger.Warn("tier encode failed",
			logger.String("assetId", assetID),
			logger.String("quality", string(tier)),
			logger.ErrorField(err))
		return TierResult{Quality: tier, Err: err}
	}

	playlistURL, err := o.uploader.UploadRendition(ctx, tierDir, assetID, tier)
	if err != nil {
		logger.Warn("tier upload failed",
			logger.String("assetId", assetID),
			logger.String("quality", string(tier)),
			logger.ErrorField(err))
		return TierResult{Quality: tier, Err: err}
	}

	rendition := &model.StreamRendition{
		AssetID:      assetID,
		Quality:      tier,
		PlaylistURL:  playlistURL,
		SegmentCount: out.SegmentCount,
	}
	if err := o.renditions.Upsert(ctx, rendition); err != nil {
		logger.Warn("tier record failed",
			logger.String("assetId", assetID),
			logger.String("quality", string(tier)),
			logger.ErrorField(err))
		return TierResult{Quality: tier, Err: err}
	}

	return TierResult{
		Quality:      tier,
		PlaylistURL:  playlistURL,
		SegmentCount: out.SegmentCount,
	}
}

// ConvertWithRetry retries the whole conversion on failures outside the
// per-tier isolation boundary, up to three attempts with backoff. A missing
// source or an already-running conversion is not retried. After the retries
// are exhausted the asset's partial state is cleaned up.
func (o *Orchestrator) ConvertWithRetry(ctx context.Context, assetID string) (*ConversionResult, error) {
	var lastErr error
	for attempt := 1; attempt <= convertMaxAttempts; attempt++ {
		result, err := o.Convert(ctx, assetID)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, ErrConversionInProgress) || errors.Is(err, storage.ErrSourceNotFound) {
			return nil, err
		}

		lastErr = err
		logger.Warn("conversion attempt failed",
			logger.String("assetId", assetID),
			logger.Int("attempt", attempt),
			logger.Int("maxAttempts", convertMaxAttempts),
			logger.ErrorField(err))

		if attempt < convertMaxAttempts {
			select {
			case <-time.After(o.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	logger.Error("conversion abandoned, scheduling cleanup",
		logger.String("assetId", assetID),
		logger.Int("attempts", convertMaxAttempts),
		logger.ErrorField(lastErr))
	if err := o.Cleanup(ctx, assetID); err != nil {
		logger.Error("cleanup after abandoned conversion failed",
			logger.String("assetId", assetID),
			logger.ErrorField(err))
	}
	return nil, fmt.Errorf("conversion abandoned after %d attempts: %w", convertMaxAttempts, lastErr)
}

// Cleanup deletes every rendition row for the asset and bulk-deletes all
// remote objects under its key prefix. Absent remote objects are tolerated.
func (o *Orchestrator) Cleanup(ctx context.Context, assetID string) error {
	var errs []error
	if err := o.renditions.DeleteByAsset(ctx, assetID); err != nil {
		errs = append(errs, err)
	}
	if err := o.uploader.RemoveAssetObjects(ctx, assetID); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	logger.Info("asset cleanup complete", logger.String("assetId", assetID))
	return nil
}
