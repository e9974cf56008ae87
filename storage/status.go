package storage

import (
	"context"
	"fmt"
	"time"

	"WaveFM/config"
	"WaveFM/logger"

	"github.com/minio/minio-go/v7"
)

// BucketStats aggregates object counts and sizes for a prefix.
type BucketStats struct {
	TotalObjects int64
	TotalSize    int64
	LastModified time.Time
}

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListBucketObjects lists the objects under a prefix with aggregate stats.
func ListBucketObjects(ctx context.Context, prefix string) ([]ObjectInfo, *BucketStats, error) {
	client := GetMinioClient()
	if client == nil {
		return nil, nil, ErrStorageNotConfigured
	}

	cfg := config.Load()
	stats := &BucketStats{}
	var objects []ObjectInfo

	for object := range client.ListObjects(ctx, cfg.MinioBucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}

		stats.TotalObjects++
		stats.TotalSize += object.Size
		if object.LastModified.After(stats.LastModified) {
			stats.LastModified = object.LastModified
		}

		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}

	return objects, stats, nil
}

// PrintBucketStatus logs an operator-facing report of the bucket contents
// under a prefix.
func PrintBucketStatus(ctx context.Context, prefix string) error {
	objects, stats, err := ListBucketObjects(ctx, prefix)
	if err != nil {
		return err
	}

	cfg := config.Load()
	logger.Info("bucket status",
		logger.String("bucket", cfg.MinioBucket),
		logger.String("prefix", prefix),
		logger.Int64("objects", stats.TotalObjects),
		logger.String("totalSize", formatSize(stats.TotalSize)),
		logger.String("lastModified", stats.LastModified.Format(time.RFC3339)))

	for _, obj := range objects {
		fmt.Printf("%-80s %10s  %s\n", obj.Key, formatSize(obj.Size), obj.LastModified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// formatSize renders a byte count in human units.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(size)/float64(div), "KMGTPE"[exp])
}
