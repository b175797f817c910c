package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// StatFunc reports size and modification time of a source.
type StatFunc func(path string) (os.FileInfo, error)

// Cache memoizes loaded datasets per source path. An entry is reused while
// the source keeps the same size and modification time.
type Cache struct {
	loader  *Loader
	stat    StatFunc
	mu      sync.Mutex
	entries map[string]*cacheEntry
	hits    atomic.Int64
	misses  atomic.Int64
}

type cacheEntry struct {
	ds      *Dataset
	size    int64
	modTime time.Time
}

// CacheStats contains cache statistics.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// NewCache wraps loader with memoization. A nil stat defaults to os.Stat.
func NewCache(loader *Loader, stat StatFunc) *Cache {
	if stat == nil {
		stat = os.Stat
	}
	return &Cache{
		loader:  loader,
		stat:    stat,
		entries: make(map[string]*cacheEntry),
	}
}

// Load returns the cached dataset for path, loading it on first use or when
// the source changed since the last load.
func (c *Cache) Load(ctx context.Context, path string) (*Dataset, error) {
	key := filepath.Clean(path)

	fi, err := c.stat(key)
	if err != nil {
		return nil, eris.Wrap(err, "dataset: stat source")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok && e.size == fi.Size() && e.modTime.Equal(fi.ModTime()) {
		c.hits.Add(1)
		return e.ds, nil
	}
	c.misses.Add(1)

	ds, err := c.loader.Load(ctx, key)
	if err != nil {
		return nil, err
	}
	if _, stale := c.entries[key]; stale {
		zap.L().Debug("dataset: source changed, reloaded", zap.String("path", key))
	}
	c.entries[key] = &cacheEntry{ds: ds, size: fi.Size(), modTime: fi.ModTime()}
	return ds, nil
}

// Invalidate drops the cached entry for path.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, filepath.Clean(path))
}

// Stats returns current cache statistics.
func (c *Cache) Stats() CacheStats {
	c.mu.Lock()
	n := len(c.entries)
	c.mu.Unlock()
	return CacheStats{
		Entries: n,
		Hits:    c.hits.Load(),
		Misses:  c.misses.Load(),
	}
}
