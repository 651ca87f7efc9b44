package redis

import (
	"context"
	"errors"
	"time"

	"github.com/pollbox/api/internal/core/ports"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "page:"

// PageCache stores rendered page bodies in Redis keyed by logical path.
type PageCache struct {
	client *redis.Client
}

func NewPageCache(client *redis.Client) *PageCache {
	return &PageCache{client: client}
}

func (c *PageCache) Get(ctx context.Context, path string) ([]byte, error) {
	body, err := c.client.Get(ctx, keyPrefix+path).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return body, nil
}

func (c *PageCache) Set(ctx context.Context, path string, body []byte, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+path, body, ttl).Err()
}

func (c *PageCache) Invalidate(ctx context.Context, paths ...string) error {
	keys := make([]string, len(paths))
	for i, p := range paths {
		keys[i] = keyPrefix + p
	}
	return c.client.Del(ctx, keys...).Err()
}

var _ ports.PageCache = (*PageCache)(nil)
