// Package cache stores short-lived values with an absolute expiry.
package cache

import (
	"context"
	"time"
)

// Repository persists values until expiresAt. Get returns (nil, nil) for a
// missing or expired key.
type Repository interface {
	Put(ctx context.Context, key string, value []byte, expiresAt time.Time) error
	Get(ctx context.Context, key string, now time.Time) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Purge(ctx context.Context, now time.Time) (int64, error)
}
