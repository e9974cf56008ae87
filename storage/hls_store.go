package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"WaveFM/config"
	"WaveFM/logger"
	"WaveFM/model"

	"github.com/minio/minio-go/v7"
)

// ErrEmptyRenditionDir indicates a tier working directory with nothing to
// upload, which means the encode step produced no output.
var ErrEmptyRenditionDir = errors.New("rendition directory is empty")

// Rendition objects are written once per conversion and then immutable, so
// long-lived edge caching is safe.
const renditionCacheControl = "public, max-age=31536000"

// HLSStore pushes finished HLS renditions to object storage and serves as
// the cleanup boundary for the bulk delete by asset prefix.
type HLSStore struct {
	client    *minio.Client
	bucket    string
	endpoint  string
	useSSL    bool
	cdnDomain string
}

// NewHLSStore builds an HLSStore on top of the shared MinIO client.
func NewHLSStore(cfg *config.Config) (*HLSStore, error) {
	client := GetMinioClient()
	if client == nil {
		return nil, ErrStorageNotConfigured
	}

	return &HLSStore{
		client:    client,
		bucket:    cfg.MinioBucket,
		endpoint:  cfg.MinioEndpoint,
		useSSL:    cfg.MinioUseSSL,
		cdnDomain: cfg.CDNDomain,
	}, nil
}

// UploadRendition uploads every file in localDir under the rendition's
// remote prefix and returns the public URL of the playlist object.
// The tier is all-or-nothing: the first failed object aborts the upload and
// no URL is returned. Partially written objects are left for cleanup or the
// reconciliation sweep.
func (s *HLSStore) UploadRendition(ctx context.Context, localDir, assetID string, quality model.QualityTier) (string, error) {
	entries, err := os.ReadDir(localDir)
	if err != nil {
		return "", fmt.Errorf("failed to read rendition directory %s: %w", localDir, err)
	}

	uploaded := 0
	prefix := RenditionPrefix(assetID, quality)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		localPath := filepath.Join(localDir, entry.Name())
		objectKey := prefix + entry.Name()

		_, err := s.client.FPutObject(ctx, s.bucket, objectKey, localPath, minio.PutObjectOptions{
			ContentType:  contentTypeByExt(entry.Name()),
			CacheControl: renditionCacheControl,
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload %s: %w", objectKey, err)
		}
		uploaded++
	}

	if uploaded == 0 {
		return "", ErrEmptyRenditionDir
	}

	logger.Debug("rendition uploaded",
		logger.String("assetId", assetID),
		logger.String("quality", string(quality)),
		logger.Int("objects", uploaded))

	return s.PublicURL(PlaylistKey(assetID, quality)), nil
}

// RemoveAssetObjects bulk-deletes every remote object under the asset's
// prefix. An absent or already-empty prefix is not an error.
func (s *HLSStore) RemoveAssetObjects(ctx context.Context, assetID string) error {
	prefix := AssetPrefix(assetID)

	objectsCh := make(chan minio.ObjectInfo)
	listCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		defer close(objectsCh)
		for object := range s.client.ListObjects(listCtx, s.bucket, minio.ListObjectsOptions{
			Prefix:    prefix,
			Recursive: true,
		}) {
			if object.Err != nil {
				logger.Warn("listing objects for cleanup failed",
					logger.String("prefix", prefix),
					logger.ErrorField(object.Err))
				continue
			}
			select {
			case objectsCh <- object:
			case <-listCtx.Done():
				return
			}
		}
	}()

	removed := 0
	for removeErr := range s.client.RemoveObjects(ctx, s.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if removeErr.Err != nil {
			// Already-gone objects are fine; the cleanup must tolerate
			// partial remote state.
			resp := minio.ToErrorResponse(removeErr.Err)
			if resp.Code == "NoSuchKey" {
				continue
			}
			return fmt.Errorf("failed to remove object %s: %w", removeErr.ObjectName, removeErr.Err)
		}
		removed++
	}

	logger.Info("asset objects removed",
		logger.String("assetId", assetID),
		logger.Int("removed", removed))
	return nil
}

// ListAssetIDs returns the asset IDs that currently have objects under the
// HLS root, derived from the first-level prefixes.
func (s *HLSStore) ListAssetIDs(ctx context.Context) ([]string, error) {
	var assetIDs []string
	for object := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    hlsRoot,
		Recursive: false,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list asset prefixes: %w", object.Err)
		}
		// Non-recursive listing yields common prefixes like "hls/{assetID}/".
		id := strings.TrimSuffix(strings.TrimPrefix(object.Key, hlsRoot), "/")
		if id != "" {
			assetIDs = append(assetIDs, id)
		}
	}
	return assetIDs, nil
}

// PublicURL resolves an object key to the URL clients should fetch it from.
// A configured CDN domain substitutes for the direct storage endpoint
// transparently.
func (s *HLSStore) PublicURL(objectKey string) string {
	if s.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cdnDomain, objectKey)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, objectKey)
}

// contentTypeByExt maps a rendition file name to its MIME type.
func contentTypeByExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/MP2T"
	default:
		return "application/octet-stream"
	}
}

// UploadSource stores an asset's original audio blob. Used by the convert
// command when pointed at a local file, and by tests.
func (s *HLSStore) UploadSource(ctx context.Context, localPath, assetID string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
	defer cancel()

	_, err := s.client.FPutObject(ctx, s.bucket, SourceKey(assetID), localPath, minio.PutObjectOptions{
		ContentType: "application/octet-stream",
	})
	if err != nil {
		return fmt.Errorf("failed to upload source for asset %s: %w", assetID, err)
	}
	return nil
}
