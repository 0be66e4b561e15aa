// Package catalogcache keeps a process-wide snapshot of the FBR error catalog.
// The catalog is read-only reference data shared by every concurrent
// registration attempt; it is loaded once and reloaded only on explicit
// invalidation after administrative edits.
package catalogcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/fbr-invoice-engine/internal/domain/catalog"
)

// Cache is a read-through snapshot of the active catalog entries
type Cache struct {
	repo   catalog.Repository
	logger *slog.Logger

	mu       sync.RWMutex
	entries  []catalog.Entry
	loaded   bool
	loadedAt time.Time
}

// New creates an empty cache backed by the given repository
func New(logger *slog.Logger, repo catalog.Repository) *Cache {
	return &Cache{
		repo:   repo,
		logger: logger,
	}
}

// Snapshot returns the active catalog entries, loading them on first use.
// Callers receive a copy and may not observe later invalidations mid-run;
// the matcher is specified to operate over an immutable snapshot.
func (c *Cache) Snapshot(ctx context.Context) ([]catalog.Entry, error) {
	c.mu.RLock()
	if c.loaded {
		snapshot := make([]catalog.Entry, len(c.entries))
		copy(snapshot, c.entries)
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded { // another goroutine loaded while we waited
		snapshot := make([]catalog.Entry, len(c.entries))
		copy(snapshot, c.entries)
		return snapshot, nil
	}

	entries, err := c.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	c.entries = entries
	c.loaded = true
	c.loadedAt = time.Now()
	c.logger.Info("Error catalog loaded", "entries", len(entries))

	snapshot := make([]catalog.Entry, len(entries))
	copy(snapshot, entries)
	return snapshot, nil
}

// Invalidate drops the cached snapshot so the next Snapshot call reloads.
// Called after administrative catalog edits.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.loaded = false
	c.logger.Info("Error catalog cache invalidated")
}
