package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

const (
	// ListingsCacheTTL bounds staleness of the listing search cache. Listing
	// mutations do not purge entries; readers may see a page up to this old.
	ListingsCacheTTL = 60 * time.Second

	defaultCacheTTL = time.Hour
)

// ListingsCacheKey composes a deterministic cache key from the normalized
// listing query. Field values are query-escaped so that user input cannot
// collide two different queries onto one key.
func ListingsCacheKey(region, search string, page, size int) string {
	return fmt.Sprintf("cache:listings:region=%s:search=%s:page=%d:size=%d",
		url.QueryEscape(region), url.QueryEscape(search), page, size)
}

// CacheGetBytes returns cached bytes for a key from Redis.
func CacheGetBytes(key string) ([]byte, bool) {
	rc := GetRedis()
	if rc == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	b, err := rc.Get(ctx, key).Bytes()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// CacheSetBytes stores bytes with the given TTL.
func CacheSetBytes(key string, b []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	rc := GetRedis()
	if rc == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Set(ctx, key, b, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

// CacheSetJSON marshals v and stores JSON bytes.
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	CacheSetBytes(key, b, ttl)
}

// GetOrCompute returns the cached payload for key when present; otherwise it
// invokes compute, stores the marshaled result under key with the given TTL,
// and returns the fresh bytes. Expiry is enforced by Redis itself.
func GetOrCompute(key string, ttl time.Duration, compute func() (interface{}, error)) ([]byte, error) {
	if b, ok := CacheGetBytes(key); ok {
		return b, nil
	}
	v, err := compute()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	CacheSetBytes(key, b, ttl)
	return b, nil
}
