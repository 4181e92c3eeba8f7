package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache keeps computed quotes in Redis for a short window. Keys embed the
// document's last-modified stamp, so an edit naturally misses and nothing
// stale is ever served.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewCache constructs the quote cache.
func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(id string, lastModified time.Time) string {
	return fmt.Sprintf("quote:%s:%d", id, lastModified.UnixNano())
}

// Get returns the cached quote if present.
func (c *Cache) Get(ctx context.Context, id string, lastModified time.Time) (Quote, bool) {
	payload, err := c.rdb.Get(ctx, cacheKey(id, lastModified)).Bytes()
	if err != nil {
		return Quote{}, false
	}
	var q Quote
	if err := json.Unmarshal(payload, &q); err != nil {
		return Quote{}, false
	}
	return q, true
}

// Put stores the quote under the document's current version key.
func (c *Cache) Put(ctx context.Context, id string, lastModified time.Time, q Quote) error {
	payload, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quote: %w", err)
	}
	if err := c.rdb.Set(ctx, cacheKey(id, lastModified), payload, c.ttl).Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("store quote: %w", err)
	}
	return nil
}
