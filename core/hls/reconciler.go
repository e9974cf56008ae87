package hls

import (
	"context"
	"errors"

	"WaveFM/logger"
	"WaveFM/repository"
)

// RemoteIndex lists and removes remote rendition objects by asset.
type RemoteIndex interface {
	ListAssetIDs(ctx context.Context) ([]string, error)
	RemoveAssetObjects(ctx context.Context, assetID string) error
}

// Reconciler removes remote objects for assets that have no rendition rows,
// covering the crash window between a successful upload and the rendition
// upsert. Rendition rows are the source of truth.
type Reconciler struct {
	remote     RemoteIndex
	renditions repository.RenditionRepository
}

// NewReconciler wires a reconciliation sweep.
func NewReconciler(remote RemoteIndex, renditions repository.RenditionRepository) *Reconciler {
	return &Reconciler{remote: remote, renditions: renditions}
}

// Sweep scans the remote asset prefixes and deletes any with zero recorded
// renditions. Individual asset failures do not stop the sweep.
func (r *Reconciler) Sweep(ctx context.Context) error {
	assetIDs, err := r.remote.ListAssetIDs(ctx)
	if err != nil {
		return err
	}

	var errs []error
	orphans := 0
	for _, assetID := range assetIDs {
		count, err := r.renditions.CountByAsset(ctx, assetID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if count > 0 {
			continue
		}

		logger.Warn("removing orphaned remote objects",
			logger.String("assetId", assetID))
		if err := r.remote.RemoveAssetObjects(ctx, assetID); err != nil {
			errs = append(errs, err)
			continue
		}
		orphans++
	}

	logger.Info("reconciliation sweep finished",
		logger.Int("assetsScanned", len(assetIDs)),
		logger.Int("orphansRemoved", orphans))
	return errors.Join(errs...)
}
