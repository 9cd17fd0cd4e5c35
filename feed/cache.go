package feed

import (
	"context"
	"strconv"
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// PageCache keeps global feed pages for a short time. Writes never invalidate it:
// entries leave by TTL or through Clear, so a new post can be missing from a cached page for up to one TTL
type PageCache interface {
	Get(ctx context.Context, number int) (Page, bool)
	Set(ctx context.Context, number int, page Page)
	Clear(ctx context.Context) error
}

type cacheEntry struct {
	page      Page
	expiresAt time.Time
}

type MemoryCache struct {
	items    cmap.ConcurrentMap[string, cacheEntry]
	ttl      time.Duration
	maxPages int
	now      func() time.Time
}

func NewMemoryCache(ttl time.Duration, maxPages int) *MemoryCache {
	return &MemoryCache{
		items:    cmap.New[cacheEntry](),
		ttl:      ttl,
		maxPages: maxPages,
		now:      time.Now,
	}
}

func (c *MemoryCache) Get(_ context.Context, number int) (Page, bool) {
	key := strconv.Itoa(number)
	entry, ok := c.items.Get(key)
	if !ok {
		return Page{}, false
	}
	now := c.now()
	if !now.Before(entry.expiresAt) {
		c.items.RemoveCb(key, func(_ string, v cacheEntry, exists bool) bool {
			// A concurrent Set may have stored a fresh entry in the meantime
			return exists && !now.Before(v.expiresAt)
		})
		return Page{}, false
	}
	return entry.page, true
}

func (c *MemoryCache) Set(_ context.Context, number int, page Page) {
	if c.ttl <= 0 {
		return
	}
	key := strconv.Itoa(number)
	if c.maxPages > 0 && !c.items.Has(key) && c.items.Count() >= c.maxPages {
		c.purgeExpired()
		if c.items.Count() >= c.maxPages {
			return
		}
	}
	c.items.Set(key, cacheEntry{page: page, expiresAt: c.now().Add(c.ttl)})
}

func (c *MemoryCache) Clear(context.Context) error {
	c.items.Clear()
	return nil
}

func (c *MemoryCache) Len() int {
	return c.items.Count()
}

func (c *MemoryCache) purgeExpired() {
	now := c.now()
	expired := []string{}
	c.items.IterCb(func(key string, v cacheEntry) {
		if !now.Before(v.expiresAt) {
			expired = append(expired, key)
		}
	})
	for _, key := range expired {
		c.items.RemoveCb(key, func(_ string, v cacheEntry, exists bool) bool {
			return exists && !now.Before(v.expiresAt)
		})
	}
}
