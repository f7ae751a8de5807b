package raid

import (
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/BrandishRaid_Go/internal/domain"
)

// cachedRaidEntry wraps a raid with version metadata for cache invalidation
type cachedRaidEntry struct {
	Version  string
	Raid     *domain.Raid
	CachedAt time.Time
}

// raidCache holds raids that reached a terminal status. Terminal raids never
// change again, so entries only leave through size or TTL eviction.
type raidCache struct {
	lru *expirable.LRU[uuid.UUID, *cachedRaidEntry]
}

func newRaidCache(size int, ttl time.Duration) *raidCache {
	return &raidCache{
		lru: expirable.NewLRU[uuid.UUID, *cachedRaidEntry](size, nil, ttl),
	}
}

// Get returns a copy of a cached terminal raid
func (c *raidCache) Get(id uuid.UUID) (*domain.Raid, bool) {
	entry, found := c.lru.Get(id)
	if !found {
		return nil, false
	}
	if entry.Version != CacheSchemaVersion {
		c.lru.Remove(id)
		return nil, false
	}
	return entry.Raid.Clone(), true
}

// Set caches the raid if it is terminal; active raids are ignored
func (c *raidCache) Set(r *domain.Raid) {
	if r == nil || r.IsActive() {
		return
	}
	c.lru.Add(r.ID, &cachedRaidEntry{
		Version:  CacheSchemaVersion,
		Raid:     r.Clone(),
		CachedAt: time.Now(),
	})
}

// Len reports the number of cached raids
func (c *raidCache) Len() int {
	return c.lru.Len()
}
