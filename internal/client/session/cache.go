package session

import (
	"context"
	"time"

	"github.com/contactx/contactx/internal/client/repositories/cache"
	"github.com/contactx/contactx/internal/logging"
)

// Cache holds values for a fixed TTL. Expired entries read as absent. A
// timer also purges them once the TTL elapses; if the process exits first
// the lazy check on Get still applies.
type Cache struct {
	repo   cache.Repository
	logger logging.Logger
	now    func() time.Time
}

func NewCache(repo cache.Repository, logger logging.Logger) *Cache {
	return &Cache{repo: repo, logger: logger, now: time.Now}
}

func (c *Cache) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := c.now
	if err := c.repo.Put(ctx, key, value, now().Add(ttl)); err != nil {
		return err
	}

	time.AfterFunc(ttl, func() {
		ctx := context.Background()
		if _, err := c.repo.Purge(ctx, now()); err != nil {
			c.logger.Debug(ctx, "cache purge failed", "key", key, "error", err)
		}
	})
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	return c.repo.Get(ctx, key, c.now())
}
