// Package catalog resolves product titles for display enrichment. Titles
// never feed identity keys, so a failed lookup degrades to a fallback
// string instead of an error.
package catalog

import (
	"context"
	"sync"
	"time"

	logx "shopwatch/pkg/logx"
)

// Lookup fetches a title from the content API. "" means not found.
type Lookup func(ctx context.Context, nmID int64) (string, error)

type entry struct {
	title   string
	expires time.Time
}

// Cache is a TTL cache over a Lookup. Misses and failures are cached too,
// so an unknown product does not trigger a lookup on every event.
type Cache struct {
	fetch Lookup
	ttl   time.Duration
	log   logx.Logger

	mu      sync.Mutex
	entries map[int64]entry
}

func New(fetch Lookup, ttl time.Duration, log logx.Logger) *Cache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Cache{fetch: fetch, ttl: ttl, log: log, entries: map[int64]entry{}}
}

// TitleFor returns the cached or freshly fetched title, or "" when the
// product is unknown or the lookup fails.
func (c *Cache) TitleFor(ctx context.Context, nmID int64) string {
	if nmID == 0 {
		return ""
	}
	now := time.Now()

	c.mu.Lock()
	e, ok := c.entries[nmID]
	c.mu.Unlock()
	if ok && now.Before(e.expires) {
		return e.title
	}

	title, err := c.fetch(ctx, nmID)
	if err != nil {
		c.log.Debug("title lookup failed", logx.Int64("nm_id", nmID), logx.Err(err))
		title = ""
	}

	c.mu.Lock()
	c.entries[nmID] = entry{title: title, expires: now.Add(c.ttl)}
	c.mu.Unlock()
	return title
}
