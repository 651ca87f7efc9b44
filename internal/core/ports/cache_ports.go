package ports

import (
	"context"
	"time"
)

// PageCache holds rendered page payloads keyed by logical path ("/polls",
// "/polls/{id}"). Write paths invalidate entries; the HTTP layer fills them.
type PageCache interface {
	Get(ctx context.Context, path string) ([]byte, error)
	Set(ctx context.Context, path string, body []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, paths ...string) error
}
