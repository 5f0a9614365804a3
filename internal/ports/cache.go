package ports

import (
	"context"
	"time"
)

// Cache is a string key-value store with per-key expiry. Backed by
// Redis in production and an in-memory map in tests and fallback mode.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping() error
	Close() error
}
