// Package cache memoizes derived results in Redis. Fetched pages are never
// cached; only expensive derived values (exchange rates, fallback extraction
// records) go through here.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

var client *redis.Client

// Init connects the memoizer to Redis. An empty addr leaves caching disabled
// and Memoize becomes a passthrough.
func Init(addr string) {
	if addr == "" {
		return
	}
	client = redis.NewClient(&redis.Options{Addr: addr})
}

// Memoize caches the result of fn in Redis under key for ttl. Redis being
// unreachable degrades to a direct call; errors from fn are never cached.
func Memoize[T any](key string, ttl time.Duration, fn func() (T, error)) (T, error) {
	var result T
	if client == nil {
		return fn()
	}
	ctx := context.Background()

	cachedData, err := client.Get(ctx, key).Bytes()
	if err == nil {
		if jsonErr := json.Unmarshal(cachedData, &result); jsonErr == nil {
			return result, nil
		}
	}

	result, err = fn()
	if err != nil {
		return result, err
	}

	cacheData, _ := json.Marshal(result)
	client.Set(ctx, key, cacheData, ttl)

	return result, nil
}
