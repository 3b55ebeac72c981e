package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/nexo/internal/cache"
	"github.com/ahmetcoskunkizilkaya/nexo/internal/models"
)

// TagCache keeps recently resolved tags, with their mode rows, keyed by
// code. A nil *TagCache or a non-positive TTL disables caching.
//
// Every Invalidate bumps a per-code generation. A snapshot loaded under an
// older generation is never left in the store.
type TagCache struct {
	store cache.Store
	ttl   time.Duration

	mu   sync.Mutex
	gens map[string]uint64
}

func NewTagCache(store cache.Store, ttl time.Duration) *TagCache {
	if store == nil || ttl <= 0 {
		return nil
	}
	return &TagCache{store: store, ttl: ttl, gens: make(map[string]uint64)}
}

// generation is read before loading a tag and handed back to put.
func (c *TagCache) generation(code string) uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gens[code]
}

func cacheKey(code string) string {
	return "tag:" + code
}

func (c *TagCache) get(ctx context.Context, code string) (*models.Tag, bool) {
	if c == nil {
		return nil, false
	}
	b, found, err := c.store.Get(ctx, cacheKey(code))
	if err != nil {
		slog.Warn("tag cache read failed", "code", code, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}
	var tag models.Tag
	if err := json.Unmarshal(b, &tag); err != nil {
		slog.Warn("tag cache entry corrupt", "code", code, "error", err)
		return nil, false
	}
	return &tag, true
}

// put stores tag unless the code was invalidated after gen was read. The
// generation is checked again after the write so an Invalidate racing the
// Set still wins.
func (c *TagCache) put(ctx context.Context, tag *models.Tag, gen uint64) {
	if c == nil || c.generation(tag.Code) != gen {
		return
	}
	b, err := json.Marshal(tag)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, cacheKey(tag.Code), b, c.ttl); err != nil {
		slog.Warn("tag cache write failed", "code", tag.Code, "error", err)
		return
	}
	if c.generation(tag.Code) != gen {
		c.drop(ctx, tag.Code)
	}
}

// Invalidate drops the entry for code so the next tap reads the database.
func (c *TagCache) Invalidate(ctx context.Context, code string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.gens[code]++
	c.mu.Unlock()
	c.drop(ctx, code)
}

func (c *TagCache) drop(ctx context.Context, code string) {
	if err := c.store.Delete(ctx, cacheKey(code)); err != nil {
		slog.Warn("tag cache invalidate failed", "code", code, "error", err)
	}
}
