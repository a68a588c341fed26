package imageio

import (
	"path/filepath"
	"sync"

	"lighting-renderer/internal/raster"
)

// Cache shares decoded maps between jobs. Cached buffers must be treated
// as read-only.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
	load  func(string) (*raster.NRGBABuffer, error)
}

type cacheEntry struct {
	buf *raster.NRGBABuffer
	err error
}

// NewCache creates an empty cache backed by Load.
func NewCache() *Cache {
	return &Cache{
		items: make(map[string]*cacheEntry),
		load:  Load,
	}
}

// Get returns the decoded image at path, loading it on first use. Failed
// loads are cached too.
func (c *Cache) Get(path string) (*raster.NRGBABuffer, error) {
	key := filepath.Clean(path)

	c.mu.RLock()
	if e, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return e.buf, e.err
	}
	c.mu.RUnlock()

	buf, err := c.load(key)

	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[key]; ok {
		return e.buf, e.err
	}
	c.items[key] = &cacheEntry{buf: buf, err: err}
	return buf, err
}

// Len returns the number of cached paths.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
