package redis

import (
	"context"
	"fmt"
	"time"

	"cinematix/db"
)

const RESPONSE_CACHE_KEY_FORMAT_V1 = "response_cache_v1:%s"

// ResponseCacheDAO stores raw API response bodies addressed by request URL.
// Consumers read it before the network (stale-while-revalidate); the network
// result overwrites the entry afterwards.
type ResponseCacheDAO struct {
	client db.KeyValueClient
	ttl    time.Duration
}

// NewResponseCacheDAO initializes a ResponseCacheDAO. A zero ttl keeps
// entries forever.
func NewResponseCacheDAO(client db.KeyValueClient, ttl time.Duration) *ResponseCacheDAO {
	return &ResponseCacheDAO{client: client, ttl: ttl}
}

// Get returns the cached body for a request URL, if present.
func (dao *ResponseCacheDAO) Get(ctx context.Context, url string) ([]byte, bool, error) {
	key := fmt.Sprintf(RESPONSE_CACHE_KEY_FORMAT_V1, url)
	value, ok, err := dao.client.Get(ctx, key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached response for %s: %w", url, err)
	}
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

// Put stores the body for a request URL.
func (dao *ResponseCacheDAO) Put(ctx context.Context, url string, body []byte) error {
	key := fmt.Sprintf(RESPONSE_CACHE_KEY_FORMAT_V1, url)
	if err := dao.client.Set(ctx, key, string(body), dao.ttl); err != nil {
		return fmt.Errorf("failed to cache response for %s: %w", url, err)
	}
	return nil
}
