package server

import (
	"sync"
	"time"

	"github.com/mj1618/opi-cli/internal/model"
)

// cacheEntry holds a cached snapshot with its timestamp and frame count.
type cacheEntry struct {
	elements  []model.Element
	frames    int
	timestamp time.Time
}

// SnapshotCache provides a TTL-based cache of display snapshots keyed by
// display file. An entry is also stale once its display painted a newer
// frame.
type SnapshotCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewSnapshotCache creates a new cache. A ttl of 0 disables caching.
func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Snapshot returns the cached snapshot of file if it is fresh, otherwise
// calls read and caches its result.
func (c *SnapshotCache) Snapshot(file string, frames int, read func() []model.Element) []model.Element {
	if c.ttl == 0 {
		return read()
	}

	c.mu.Lock()
	if entry, ok := c.entries[file]; ok && entry.frames == frames && time.Since(entry.timestamp) < c.ttl {
		elements := entry.elements
		c.mu.Unlock()
		return elements
	}
	c.mu.Unlock()

	elements := read()

	c.mu.Lock()
	c.entries[file] = cacheEntry{elements: elements, frames: frames, timestamp: time.Now()}
	c.mu.Unlock()

	return elements
}

// Invalidate removes the entry for file.
func (c *SnapshotCache) Invalidate(file string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, file)
}

// InvalidateAll clears the entire cache.
func (c *SnapshotCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}
