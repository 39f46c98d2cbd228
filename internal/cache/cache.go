package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"moim/internal/logger"

	"github.com/redis/go-redis/v9"
)

var rdb *redis.Client

// Init connects to redis. The cache is an optimization for hot list/detail
// responses; when redis is unreachable every helper degrades to a no-op and
// the board keeps serving straight from postgres.
func Init() {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/0"
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		logger.L.Warnf("Invalid REDIS_URL, response cache disabled: %v", err)
		return
	}

	client := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.L.Warnf("Redis unavailable, response cache disabled: %v", err)
		return
	}

	rdb = client
	logger.L.Info("Redis connection established")
}

// GetJSON loads key into dest. Returns false on miss, error or disabled cache.
func GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if rdb == nil {
		return false
	}
	data, err := rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logger.L.Warnf("Corrupt cache entry %s: %v", key, err)
		rdb.Del(ctx, key)
		return false
	}
	return true
}

// SetJSON stores val under key with a TTL. Failures are logged and ignored.
func SetJSON(ctx context.Context, key string, val interface{}, ttl time.Duration) {
	if rdb == nil {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		logger.L.Warnf("Failed to marshal cache entry %s: %v", key, err)
		return
	}
	if err := rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logger.L.Warnf("Failed to write cache entry %s: %v", key, err)
	}
}

// Delete drops keys, used to invalidate list/detail entries on writes.
func Delete(ctx context.Context, keys ...string) {
	if rdb == nil || len(keys) == 0 {
		return
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		logger.L.Warnf("Failed to invalidate cache: %v", err)
	}
}
