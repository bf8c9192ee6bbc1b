// internal/cache/cache.go

// Package cache provides the byte-oriented cache behind the chunk lookup hot
// path. The memory implementation serves single-instance deployments and
// tests; Redis backs multi-instance setups.
package cache

import (
	"context"
	"time"
)

// Cache is a TTL'd byte store. Get returns ErrCacheMiss on absent or expired
// keys.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

type CacheError string

func (e CacheError) Error() string { return string(e) }

const ErrCacheMiss CacheError = "cache miss"
