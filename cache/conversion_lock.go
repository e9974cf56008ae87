package cache

import (
	"context"
	"time"

	"WaveFM/logger"
)

// Conversion lock TTL. Generous enough to outlive a worst-case conversion
// (four tier encodes bounded at one hour each, run in parallel, plus uploads)
// so a crashed holder cannot wedge an asset forever.
const conversionLockTTL = 2 * time.Hour

// AcquireConversionLock takes the asset-scoped conversion lock. It returns
// false when another conversion already holds it. When Redis is unavailable
// the lock is granted optimistically; rendition upserts keep duplicate runs
// safe, the lock only avoids wasted transcoding work.
func AcquireConversionLock(ctx context.Context, assetID string) bool {
	if RedisClient == nil {
		return true
	}

	ok, err := RedisClient.SetNX(ctx, conversionLockKey(assetID), 1, conversionLockTTL).Result()
	if err != nil {
		logger.Warn("conversion lock acquire failed, proceeding without lock",
			logger.String("assetId", assetID),
			logger.ErrorField(err))
		return true
	}
	return ok
}

// ReleaseConversionLock releases the asset-scoped conversion lock.
func ReleaseConversionLock(ctx context.Context, assetID string) {
	if RedisClient == nil {
		return
	}

	if err := RedisClient.Del(ctx, conversionLockKey(assetID)).Err(); err != nil {
		logger.Warn("conversion lock release failed",
			logger.String("assetId", assetID),
			logger.ErrorField(err))
	}
}

func conversionLockKey(assetID string) string {
	return "convert:lock:" + assetID
}
