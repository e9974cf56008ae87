package storage

import (
	"context"
	"errors"
	"fmt"

	"WaveFM/config"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrSourceNotFound indicates the asset's source blob does not exist,
	// e.g. the asset was deleted mid-flight. Not retryable.
	ErrSourceNotFound = errors.New("source audio not found")

	// ErrSourceEmpty indicates the source blob exists but holds no data.
	ErrSourceEmpty = errors.New("source audio is empty")
)

// SourceStore fetches original audio blobs supplied by the asset collaborator.
type SourceStore struct {
	client *minio.Client
	bucket string
}

// NewSourceStore builds a SourceStore on top of the shared MinIO client.
func NewSourceStore(cfg *config.Config) (*SourceStore, error) {
	client := GetMinioClient()
	if client == nil {
		return nil, ErrStorageNotConfigured
	}

	return &SourceStore{
		client: client,
		bucket: cfg.MinioBucket,
	}, nil
}

// FetchToFile downloads the asset's source blob to destPath. It reports a
// missing source distinctly from an empty one.
func (s *SourceStore) FetchToFile(ctx context.Context, assetID, destPath string) error {
	key := SourceKey(assetID)

	stat, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return ErrSourceNotFound
		}
		return fmt.Errorf("failed to stat source %s: %w", key, err)
	}

	if stat.Size == 0 {
		return ErrSourceEmpty
	}

	if err := s.client.FGetObject(ctx, s.bucket, key, destPath, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("failed to fetch source %s: %w", key, err)
	}
	return nil
}
