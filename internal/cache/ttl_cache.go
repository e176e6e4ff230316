package cache

import (
	"sort"
	"sync"
	"time"

	"github.com/kofalt/go-memoize"
	gocache "github.com/patrickmn/go-cache"

	"github.com/rm-hull/prix-carburants-api/internal/metrics"
)

type entry struct {
	value     any
	createdAt time.Time
}

type EntryInfo struct {
	CreatedAt time.Time
	ExpiresAt time.Time
}

type Stats struct {
	Total   int      `json:"total_entries"`
	Expired int      `json:"expired_entries"`
	Active  int      `json:"active_entries"`
	Keys    []string `json:"keys"`
}

// TTLCache is a process-wide key/value cache with per-entry expiry. Expired
// entries are evicted when read and by DeleteExpired, which the caller is
// expected to run periodically.
type TTLCache struct {
	mu         sync.Mutex
	memo       *memoize.Memoizer
	defaultTTL time.Duration
}

func NewTTLCache(defaultTTL time.Duration) *TTLCache {
	return &TTLCache{
		// no janitor goroutine: sweeping is scheduled externally so it can be stopped
		memo:       memoize.NewMemoizer(defaultTTL, 0),
		defaultTTL: defaultTTL,
	}
}

func (c *TTLCache) storage() *gocache.Cache {
	return c.memo.Storage
}

func (c *TTLCache) DefaultTTL() time.Duration {
	return c.defaultTTL
}

func (c *TTLCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, found := c.storage().Get(key)
	if !found {
		// go-cache keeps expired items until swept
		c.storage().Delete(key)
		metrics.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.CacheRequests.WithLabelValues("hit").Inc()
	return item.(entry).value, true
}

// Entry returns the timestamps of a live entry without touching its value.
func (c *TTLCache) Entry(key string) (EntryInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	item, expiresAt, found := c.storage().GetWithExpiration(key)
	if !found {
		return EntryInfo{}, false
	}
	return EntryInfo{CreatedAt: item.(entry).createdAt, ExpiresAt: expiresAt}, true
}

func (c *TTLCache) Set(key string, value any) {
	c.SetWithTTL(key, value, c.defaultTTL)
}

// SetWithTTL stores value for ttl. A non-positive ttl is already expired, so
// the key simply ends up absent.
func (c *TTLCache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ttl <= 0 {
		c.storage().Delete(key)
		return
	}
	c.storage().Set(key, entry{value: value, createdAt: time.Now()}, ttl)
}

// Delete reports whether a live entry was removed.
func (c *TTLCache) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, found := c.storage().Get(key)
	c.storage().Delete(key)
	return found
}

func (c *TTLCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storage().Flush()
}

// Size counts every stored entry, including expired ones not yet evicted.
func (c *TTLCache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.storage().ItemCount()
}

func (c *TTLCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := c.storage().ItemCount()
	live := c.storage().Items()

	keys := make([]string, 0, len(live))
	for key := range live {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return Stats{
		Total:   total,
		Expired: max(total-len(live), 0),
		Active:  len(live),
		Keys:    keys,
	}
}

func (c *TTLCache) DeleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := c.storage().ItemCount()
	c.storage().DeleteExpired()
	removed := max(before-c.storage().ItemCount(), 0)
	metrics.CacheEvictions.Add(float64(removed))
	return removed
}

// Memoize returns the cached value for key, or computes, stores (default TTL)
// and returns it. Concurrent misses on the same key run fn once. Errors are
// not cached.
func (c *TTLCache) Memoize(key string, fn func() (any, error)) (any, bool, error) {
	result, err, cached := c.memo.Memoize(key, func() (interface{}, error) {
		value, err := fn()
		if err != nil {
			return nil, err
		}
		return entry{value: value, createdAt: time.Now()}, nil
	})
	if err != nil {
		return nil, false, err
	}

	if cached {
		metrics.CacheRequests.WithLabelValues("hit").Inc()
	} else {
		metrics.CacheRequests.WithLabelValues("miss").Inc()
	}
	return result.(entry).value, cached, nil
}
