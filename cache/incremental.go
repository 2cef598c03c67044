package cache

import (
	"iter"
	"time"

	"github.com/google/uuid"
)

// IncrementalOption customizes an IncrementalCache.
type IncrementalOption func(*incrementalOptions)

type incrementalOptions struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of the current time.
func WithClock(now func() time.Time) IncrementalOption {
	return func(o *incrementalOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// IncrementalCache is an append-only, insertion-ordered set of items with a
// time-to-live. Items are deduplicated by the key returned from keyFn: adding
// an item whose key is already present is a no-op and does not reorder.
//
// The cache expires as a whole. Once IsExpired reports true the owner is
// expected to Clear it, which empties storage and starts a new TTL window.
//
// IncrementalCache is not safe for concurrent use.
type IncrementalCache[T any, K comparable] struct {
	items      []T
	seen       map[K]struct{}
	keyFn      func(T) K
	ttl        time.Duration
	expiresAt  time.Time
	now        func() time.Time
	generation string
}

// NewIncremental returns a cache for comparable items deduplicated by equality.
func NewIncremental[T comparable](ttl time.Duration, opts ...IncrementalOption) *IncrementalCache[T, T] {
	return NewIncrementalFunc(ttl, func(item T) T { return item }, opts...)
}

// NewIncrementalFunc returns a cache deduplicating items by keyFn(item).
// Use it when T is not comparable or when identity is a single field.
func NewIncrementalFunc[T any, K comparable](ttl time.Duration, keyFn func(T) K, opts ...IncrementalOption) *IncrementalCache[T, K] {
	o := incrementalOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &IncrementalCache[T, K]{
		keyFn: keyFn,
		ttl:   ttl,
		now:   o.now,
	}
	c.reset()
	return c
}

func (c *IncrementalCache[T, K]) reset() {
	c.items = nil
	c.seen = make(map[K]struct{})
	c.expiresAt = c.now().Add(c.ttl)
	c.generation = uuid.NewString()
}

// IsExpired reports whether the TTL window has passed.
func (c *IncrementalCache[T, K]) IsExpired() bool {
	return c.now().After(c.expiresAt)
}

// ExpiresAt returns the end of the current TTL window.
func (c *IncrementalCache[T, K]) ExpiresAt() time.Time {
	return c.expiresAt
}

// Count returns the number of distinct items held.
func (c *IncrementalCache[T, K]) Count() int {
	return len(c.items)
}

// Clear drops every item and restarts the TTL window. Calling it repeatedly is
// harmless.
func (c *IncrementalCache[T, K]) Clear() {
	c.reset()
}

// Add appends item unless an item with the same key is already present.
func (c *IncrementalCache[T, K]) Add(item T) {
	k := c.keyFn(item)
	if _, ok := c.seen[k]; ok {
		return
	}
	c.seen[k] = struct{}{}
	c.items = append(c.items, item)
}

// AddAll appends a batch in order, skipping duplicates. It returns the number
// of items actually added.
func (c *IncrementalCache[T, K]) AddAll(items []T) int {
	before := len(c.items)
	for _, item := range items {
		c.Add(item)
	}
	return len(c.items) - before
}

// Contents returns a sequence over the items held at call time, in insertion
// order. The sequence can be ranged over more than once.
//
// It is not a live view. Ranging a sequence after a later Add or Clear yields
// undefined contents, so materialize it first (slices.Collect or Snapshot)
// when the cache will be mutated before the items are consumed.
func (c *IncrementalCache[T, K]) Contents() iter.Seq[T] {
	items := c.items
	return func(yield func(T) bool) {
		for _, item := range items {
			if !yield(item) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the items in insertion order.
func (c *IncrementalCache[T, K]) Snapshot() []T {
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Range returns a copy of the items in the zero-based range [lo, hi), clamped
// to what the cache holds.
func (c *IncrementalCache[T, K]) Range(lo, hi int) []T {
	n := len(c.items)
	if lo < 0 {
		lo = 0
	}
	if hi > n {
		hi = n
	}
	if lo >= hi {
		return []T{}
	}
	out := make([]T, hi-lo)
	copy(out, c.items[lo:hi])
	return out
}

// Generation identifies the current TTL window. It changes on every Clear and
// is meant for log and trace correlation.
func (c *IncrementalCache[T, K]) Generation() string {
	return c.generation
}
