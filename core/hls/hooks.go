package hls

import (
	"context"
	"errors"
	"time"

	"WaveFM/logger"
	"WaveFM/repository"
)

// Scheduler is the task-scheduling boundary the hooks need.
type Scheduler interface {
	Submit(name string, delay time.Duration, fn func(ctx context.Context))
}

// LifecycleHooks is the interface the pipeline exposes to the asset
// collaborator's write path. Collaborators call these after their own write
// has committed; the scheduling delay additionally tolerates
// eventually-consistent upload completion.
type LifecycleHooks struct {
	orchestrator *Orchestrator
	renditions   repository.RenditionRepository
	scheduler    Scheduler
	delay        time.Duration
}

// NewLifecycleHooks wires the lifecycle hooks.
func NewLifecycleHooks(orchestrator *Orchestrator, renditions repository.RenditionRepository, scheduler Scheduler, delay time.Duration) *LifecycleHooks {
	return &LifecycleHooks{
		orchestrator: orchestrator,
		renditions:   renditions,
		scheduler:    scheduler,
		delay:        delay,
	}
}

// OnAssetCreated schedules conversion for a freshly uploaded asset.
func (h *LifecycleHooks) OnAssetCreated(ctx context.Context, assetID string) error {
	h.scheduleConversion(assetID)
	return nil
}

// OnAssetApproved schedules conversion for assets that were uploaded but
// never successfully converted before approval.
func (h *LifecycleHooks) OnAssetApproved(ctx context.Context, assetID string) error {
	return h.scheduleIfUnconverted(ctx, assetID)
}

// OnAssetUpdated schedules conversion only when no renditions exist yet, so
// metadata edits do not trigger reconversion.
func (h *LifecycleHooks) OnAssetUpdated(ctx context.Context, assetID string) error {
	return h.scheduleIfUnconverted(ctx, assetID)
}

// OnAssetDeleted schedules cleanup of the asset's renditions and remote
// objects.
func (h *LifecycleHooks) OnAssetDeleted(ctx context.Context, assetID string) error {
	h.scheduler.Submit("cleanup:"+assetID, 0, func(taskCtx context.Context) {
		if err := h.orchestrator.Cleanup(taskCtx, assetID); err != nil {
			logger.Error("scheduled cleanup failed",
				logger.String("assetId", assetID),
				logger.ErrorField(err))
		}
	})
	return nil
}

func (h *LifecycleHooks) scheduleIfUnconverted(ctx context.Context, assetID string) error {
	count, err := h.renditions.CountByAsset(ctx, assetID)
	if err != nil {
		return err
	}
	if count > 0 {
		logger.Debug("asset already converted, skipping",
			logger.String("assetId", assetID),
			logger.Int64("renditions", count))
		return nil
	}

	h.scheduleConversion(assetID)
	return nil
}

func (h *LifecycleHooks) scheduleConversion(assetID string) {
	h.scheduler.Submit("convert:"+assetID, h.delay, func(taskCtx context.Context) {
		result, err := h.orchestrator.ConvertWithRetry(taskCtx, assetID)
		if err != nil {
			if errors.Is(err, ErrConversionInProgress) {
				logger.Info("conversion already running, trigger dropped",
					logger.String("assetId", assetID))
				return
			}
			logger.Error("scheduled conversion failed",
				logger.String("assetId", assetID),
				logger.ErrorField(err))
			return
		}

		if result.Failed() {
			logger.Error("scheduled conversion produced no renditions",
				logger.String("assetId", assetID),
				logger.Int("attempted", result.Attempted))
			return
		}
		logger.Info("scheduled conversion complete",
			logger.String("assetId", assetID),
			logger.Int("succeeded", result.Succeeded),
			logger.Int("attempted", result.Attempted))
	})
}
