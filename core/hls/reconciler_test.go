package hls

import (
	"context"
	"sync"
	"testing"

	"WaveFM/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRemoteIndex struct {
	mu      sync.Mutex
	ids     []string
	removed []string
}

func (f *fakeRemoteIndex) ListAssetIDs(ctx context.Context) ([]string, error) {
	return f.ids, nil
}

func (f *fakeRemoteIndex) RemoveAssetObjects(ctx context.Context, assetID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, assetID)
	return nil
}

func TestSweepRemovesOrphanedObjects(t *testing.T) {
	repo := newMemRenditionRepo()
	require.NoError(t, repo.Upsert(context.Background(), &model.StreamRendition{
		AssetID: "converted",
		Quality: model.QualityLow,
	}))

	remote := &fakeRemoteIndex{ids: []string{"converted", "orphan"}}
	reconciler := NewReconciler(remote, repo)

	require.NoError(t, reconciler.Sweep(context.Background()))
	assert.Equal(t, []string{"orphan"}, remote.removed)
}

func TestSweepWithNothingRemote(t *testing.T) {
	remote := &fakeRemoteIndex{}
	reconciler := NewReconciler(remote, newMemRenditionRepo())

	require.NoError(t, reconciler.Sweep(context.Background()))
	assert.Empty(t, remote.removed)
}
