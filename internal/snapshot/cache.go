/**
 * Copyright 2025-present Frith Labs
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package snapshot keeps a refreshed local view of the vault's state. It
// is a pull-based cache keyed by (operation, argument): reads revalidate
// after a TTL or on explicit invalidation, and independent fields resolve
// independently so the rest of the view never waits on one slow call.
package snapshot

import (
	"context"
	"sync"
	"time"
)

type cacheKey struct {
	op  string
	arg string
}

type cacheEntry struct {
	value     interface{}
	fetchedAt time.Time
}

// Cache is a TTL read-through cache for remote reads.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
	}
}

// Get returns the cached value for (op, arg) when still fresh, otherwise
// runs fetch and stores the result. A failed fetch caches nothing, so the
// next caller retries; the field simply stays "not loaded" meanwhile.
func (c *Cache) Get(ctx context.Context, op, arg string, fetch func(context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.RLock()
	entry, ok := c.entries[cacheKey{op, arg}]
	c.mu.RUnlock()

	if ok && (c.ttl <= 0 || time.Since(entry.fetchedAt) < c.ttl) {
		return entry.value, nil
	}

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[cacheKey{op, arg}] = cacheEntry{value: value, fetchedAt: time.Now()}
	c.mu.Unlock()

	return value, nil
}

// Invalidate drops one cached read, forcing the next Get to refetch.
func (c *Cache) Invalidate(op, arg string) {
	c.mu.Lock()
	delete(c.entries, cacheKey{op, arg})
	c.mu.Unlock()
}

// InvalidateAll drops everything, used after a transaction confirms and
// every balance and limit may have moved.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry)
	c.mu.Unlock()
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
