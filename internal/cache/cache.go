// Package cache is a small in-process read cache with tag-based invalidation.
// Every cached read registers under all tags that subsume it; a write
// invalidates from the specific day tag up through the month and owner tags.
// Over-invalidation is accepted, under-invalidation never is.
package cache

import (
	"sync"
	"time"

	"github.com/carebook/carebook/internal/daykey"
)

type entry struct {
	value     any
	tags      []string
	expiresAt time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	byTag   map[string]map[string]struct{}
	ttl     time.Duration
}

// New creates a cache whose entries expire after ttl as a natural recovery
// path for any missed invalidation. ttl <= 0 disables expiry.
func New(ttl time.Duration) *Cache {
	c := &Cache{
		entries: make(map[string]entry),
		byTag:   make(map[string]map[string]struct{}),
		ttl:     ttl,
	}
	if ttl > 0 {
		go c.cleanupLoop()
	}
	return c
}

func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		c.mu.Lock()
		c.removeLocked(key)
		c.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value any, tags []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.removeLocked(key)

	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = time.Now().Add(c.ttl)
	}
	c.entries[key] = entry{value: value, tags: tags, expiresAt: expiresAt}
	for _, tag := range tags {
		keys, ok := c.byTag[tag]
		if !ok {
			keys = make(map[string]struct{})
			c.byTag[tag] = keys
		}
		keys[key] = struct{}{}
	}
}

// Invalidate drops every entry registered under any of the given tags. It
// never fails: a missed cache-bust is recoverable, an aborted write is not.
func (c *Cache) Invalidate(tags ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, tag := range tags {
		for key := range c.byTag[tag] {
			c.removeLocked(key)
		}
		delete(c.byTag, tag)
	}
}

// InvalidateDay walks the full cascade for a day-level write: the specific
// day tag, its owning month tag, and the owner tag.
func (c *Cache) InvalidateDay(ownerKey, dayKey string) {
	month := daykey.MonthOf(dayKey)
	c.Invalidate(DayTag(ownerKey, dayKey), MonthTag(ownerKey, month), OwnerTag(ownerKey))
}

func (c *Cache) InvalidateMonth(ownerKey, month string) {
	c.Invalidate(MonthTag(ownerKey, month), OwnerTag(ownerKey))
}

// InvalidateOwner is the coarse safety net for writes whose day key is
// unknown to the caller, such as delete-by-id.
func (c *Cache) InvalidateOwner(ownerKey string) {
	c.Invalidate(OwnerTag(ownerKey))
}

func (c *Cache) removeLocked(key string) {
	e, ok := c.entries[key]
	if !ok {
		return
	}
	delete(c.entries, key)
	for _, tag := range e.tags {
		if keys, ok := c.byTag[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(c.byTag, tag)
			}
		}
	}
}

func (c *Cache) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		c.mu.Lock()
		for key, e := range c.entries {
			if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
				c.removeLocked(key)
			}
		}
		c.mu.Unlock()
	}
}

// GetOrFill returns the cached value for key, or runs fill, registers the
// result under tags, and returns it. Fill errors are returned uncached.
func GetOrFill[T any](c *Cache, key string, tags []string, fill func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	value, err := fill()
	if err != nil {
		return value, err
	}
	c.Set(key, value, tags)
	return value, nil
}
