package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error inspection
	"strconv"       // Generation formatting
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb redis.Cmdable, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Bytes() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal(val, dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb redis.Cmdable, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// CacheNamespace returns the current key prefix of a listing namespace.
// Bumping the namespace makes every key built from the old prefix unreachable.
func CacheNamespace(ctx context.Context, rdb redis.Cmdable, ns string) (string, error) {
	gen, err := rdb.Get(ctx, "cachegen:"+ns).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", err
	}
	return ns + ":g" + strconv.FormatInt(gen, 10), nil
}

// BumpCacheNamespace invalidates every cached entry of a listing namespace
func BumpCacheNamespace(ctx context.Context, rdb redis.Cmdable, ns string) error {
	return rdb.Incr(ctx, "cachegen:"+ns).Err()
}
