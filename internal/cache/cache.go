// Package cache tracks which mailbox messages have already been ingested so
// re-runs skip fetched-and-stored mail. The cache is an optimization only:
// records are keyed by content hash, so re-processing a seen message merges
// onto the same documents.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss indicates a cache miss.
var ErrCacheMiss = errors.New("cache miss")

// Client defines the cache interface.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
