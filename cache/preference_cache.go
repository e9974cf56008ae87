package cache

import (
	"context"
	"strconv"
	"time"

	"WaveFM/logger"
	"WaveFM/model"
)

const preferenceCacheTTL = time.Hour

// GetPreferenceCache returns the cached quality preference for a user.
// A cache miss (or unavailable Redis) returns ("", false) without error so
// the caller falls through to the database.
func GetPreferenceCache(ctx context.Context, userID int64) (model.QualityTier, bool) {
	if RedisClient == nil {
		return "", false
	}

	val, err := RedisClient.Get(ctx, preferenceCacheKey(userID)).Result()
	if err != nil {
		return "", false
	}

	tier := model.QualityTier(val)
	if !tier.Valid() {
		return "", false
	}
	return tier, true
}

// SetPreferenceCache caches a user's quality preference.
func SetPreferenceCache(ctx context.Context, userID int64, quality model.QualityTier) {
	if RedisClient == nil {
		return
	}

	if err := RedisClient.Set(ctx, preferenceCacheKey(userID), string(quality), preferenceCacheTTL).Err(); err != nil {
		logger.Warn("preference cache write failed",
			logger.Int64("userId", userID),
			logger.ErrorField(err))
	}
}

// DeletePreferenceCache drops a user's cached preference.
func DeletePreferenceCache(ctx context.Context, userID int64) {
	if RedisClient == nil {
		return
	}

	if err := RedisClient.Del(ctx, preferenceCacheKey(userID)).Err(); err != nil {
		logger.Warn("preference cache delete failed",
			logger.Int64("userId", userID),
			logger.ErrorField(err))
	}
}

func preferenceCacheKey(userID int64) string {
	return "pref:quality:" + strconv.FormatInt(userID, 10)
}
