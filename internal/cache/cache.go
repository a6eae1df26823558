// Package cache stores computed embedding vectors so repeated scoring runs
// do not re-embed the same claim text. Keys are content hashes, so any
// edit to a claim naturally misses the cache.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// CacheKey generates a cache key from a content string, typically
// "provider:model:claim text" so a model switch never reuses stale vectors.
func CacheKey(content string) string {
	hash := sha256.Sum256([]byte(content))
	return "reasonrank:v1:" + hex.EncodeToString(hash[:])
}
