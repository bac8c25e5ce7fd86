package db

import (
	"context"
	"time"
)

// KeyValueClient defines the key-value operations the DAOs rely on. A cache
// miss is reported through the found flag, not an error.
type KeyValueClient interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Del(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
