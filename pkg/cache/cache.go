// Copyright 2026 PreEmptive Obfuscator Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package cache provides the keyed in-memory store behind virtual documents.
//
// Entries never expire and are never evicted for size: an entry lives until
// it is deleted or the cache is closed.
package cache

import (
	"sync"
	"sync/atomic"
)

// Cache is a thread-safe map with hit/miss accounting.
type Cache[K comparable, V any] struct {
	mu        sync.RWMutex
	items     map[K]V
	closed    bool
	closeOnce sync.Once

	hits   atomic.Int64
	misses atomic.Int64
}

// Stats is a snapshot of cache statistics.
type Stats struct {
	Len     int     `json:"len"`
	Hits    int64   `json:"hits"`
	Misses  int64   `json:"misses"`
	HitRate float64 `json:"hitRate"` // 0 when nothing was looked up yet
}

// New creates an empty cache.
func New[K comparable, V any]() *Cache[K, V] {
	return &Cache[K, V]{
		items: make(map[K]V),
	}
}

// Get retrieves an item and records a hit or miss.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	value, ok := c.Peek(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return value, ok
}

// Peek retrieves an item without touching statistics.
func (c *Cache[K, V]) Peek(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		var zero V
		return zero, false
	}
	value, ok := c.items[key]
	return value, ok
}

// Set adds or replaces an item. It is a no-op once the cache is closed.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.items[key] = value
}

// Delete removes an item and reports whether it was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	if _, ok := c.items[key]; !ok {
		return false
	}
	delete(c.items, key)
	return true
}

// DeleteFunc removes every item for which fn returns true and returns how
// many were removed.
func (c *Cache[K, V]) DeleteFunc(fn func(K, V) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0
	}
	removed := 0
	for key, value := range c.items {
		if fn(key, value) {
			delete(c.items, key)
			removed++
		}
	}
	return removed
}

// Contains checks if a key exists without touching statistics.
func (c *Cache[K, V]) Contains(key K) bool {
	_, ok := c.Peek(key)
	return ok
}

// Len returns the number of items in the cache.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Close drops every entry. Afterwards reads miss and writes are ignored.
func (c *Cache[K, V]) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.items = make(map[K]V)
		c.mu.Unlock()
	})
}

// Stats returns a snapshot of the hit/miss counters.
func (c *Cache[K, V]) Stats() Stats {
	s := Stats{
		Len:    c.Len(),
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
	}
	if total := s.Hits + s.Misses; total > 0 {
		s.HitRate = float64(s.Hits) / float64(total)
	}
	return s
}
