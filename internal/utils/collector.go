package utils

import (
	"log/slog"
	"sync"
)

// Collector is a goroutine-safe append buffer for results that settle in
// arbitrary order.
type Collector[T any] struct {
	items []T
	lock  sync.Mutex
}

func NewCollector[T any](capacity int) *Collector[T] {
	return &Collector[T]{
		items: make([]T, 0, capacity),
	}
}

func (c *Collector[T]) Add(item T) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.items = append(c.items, item)
}

// Drain returns everything collected so far and empties the buffer.
func (c *Collector[T]) Drain() []T {
	c.lock.Lock()
	defer c.lock.Unlock()

	out := c.items
	c.items = make([]T, 0, cap(out))
	return out
}

func (c *Collector[T]) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return len(c.items)
}

// LogCollected reports the current size at debug level.
func (c *Collector[T]) LogCollected(kind string) {
	c.lock.Lock()
	defer c.lock.Unlock()

	slog.Debug("[Collector] Collected results",
		slog.String("type", kind),
		slog.Int("count", len(c.items)))
}

// UniqueBy keeps the first item for every key, preserving order.
func UniqueBy[T any](items []T, key func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, item)
	}
	return out
}

// Truncate returns at most n items.
func Truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
