// Package dedup tracks content fingerprints seen during one extraction run.
package dedup

import (
	"sync"

	"assetcarver/internal/fingerprint"
)

// Cache is a concurrency-safe set of content fingerprints.
type Cache struct {
	mu   sync.Mutex
	seen map[fingerprint.Fingerprint]struct{}
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{seen: make(map[fingerprint.Fingerprint]struct{})}
}

// SeenOrAdd reports whether fp was already present and inserts it otherwise.
// The check and insert happen under one lock so exactly one caller wins.
func (c *Cache) SeenOrAdd(fp fingerprint.Fingerprint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.seen[fp]; ok {
		return true
	}
	c.seen[fp] = struct{}{}
	return false
}

// Forget removes fp so a later file with the same content can be written.
// Used when the first writer failed to place its output.
func (c *Cache) Forget(fp fingerprint.Fingerprint) {
	c.mu.Lock()
	delete(c.seen, fp)
	c.mu.Unlock()
}

// Reset empties the cache at the start of a run.
func (c *Cache) Reset() {
	c.mu.Lock()
	clear(c.seen)
	c.mu.Unlock()
}

// Len returns the number of fingerprints held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.seen)
}
