// Package cache implements the process-local series cache. It is the single
// point of truth for "what do we already know about series X": snapshots,
// derived metric bundles, and the latest scenario result share one entry per
// series id, bounded by a TTL. A miss is normal control flow, never an error.
package cache

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intuition_series_cache_hits_total",
		Help: "Total number of series cache hits",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intuition_series_cache_misses_total",
		Help: "Total number of series cache misses (including TTL expiries)",
	})

	cacheEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intuition_series_cache_evictions_total",
		Help: "Total number of entries lazily evicted past their TTL",
	})
)

// Entry holds everything known about one series within the TTL window.
type Entry struct {
	Snapshot  *models.MatchSnapshot
	Bundles   []models.DerivedMetricBundle
	Scenario  *models.ScenarioResult
	Timestamp time.Time
}

// Update carries the fields a Put should merge into an entry. Nil fields are
// left untouched so a later partial Put never erases an earlier one.
type Update struct {
	Snapshot *models.MatchSnapshot
	Bundles  []models.DerivedMetricBundle
	Scenario *models.ScenarioResult
}

// SeriesCache is an in-memory, TTL-bounded store keyed by series id. It is
// safe for concurrent use. The clock is injectable for tests.
type SeriesCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time
}

// New creates a cache with the given TTL. A non-positive TTL falls back to
// 30 minutes.
func New(ttl time.Duration) *SeriesCache {
	return NewWithClock(ttl, time.Now)
}

// NewWithClock creates a cache with an explicit clock, used by tests to
// simulate TTL expiry without sleeping.
func NewWithClock(ttl time.Duration, now func() time.Time) *SeriesCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SeriesCache{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		now:     now,
	}
}

// Get returns the entry for seriesID, or (nil, false) when no entry exists
// or the entry has outlived the TTL. Expired entries are removed on read.
// The returned entry is a copy taken under the lock; callers can read it
// freely while concurrent Puts mutate the resident entry.
func (c *SeriesCache) Get(seriesID string) (*Entry, bool) {
	now := c.now()

	c.mu.RLock()
	entry, ok := c.entries[seriesID]
	var expired bool
	var copied Entry
	if ok {
		expired = now.Sub(entry.Timestamp) > c.ttl
		if !expired {
			copied = *entry
		}
	}
	c.mu.RUnlock()

	if !ok {
		cacheMisses.Inc()
		return nil, false
	}

	if expired {
		c.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// refreshed the entry since we released the read lock.
		if cur, still := c.entries[seriesID]; still && now.Sub(cur.Timestamp) > c.ttl {
			delete(c.entries, seriesID)
			cacheEvictions.Inc()
		}
		c.mu.Unlock()
		cacheMisses.Inc()
		return nil, false
	}

	cacheHits.Inc()
	return &copied, true
}

// Put merges the supplied fields into the entry for seriesID, creating the
// entry if needed, and refreshes its timestamp.
func (c *SeriesCache) Put(seriesID string, update Update) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[seriesID]
	if !ok {
		entry = &Entry{}
		c.entries[seriesID] = entry
	}

	if update.Snapshot != nil {
		entry.Snapshot = update.Snapshot
	}
	if update.Bundles != nil {
		entry.Bundles = update.Bundles
	}
	if update.Scenario != nil {
		entry.Scenario = update.Scenario
	}
	entry.Timestamp = c.now()
}

// Invalidate removes one entry.
func (c *SeriesCache) Invalidate(seriesID string) {
	c.mu.Lock()
	delete(c.entries, seriesID)
	c.mu.Unlock()
}

// Clear removes all entries.
func (c *SeriesCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]*Entry)
	c.mu.Unlock()
}

// Len returns the number of resident entries, including any not yet lazily
// evicted.
func (c *SeriesCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
