// Package memstore is an in-memory, cursor-addressed pager.Store over an
// ordered slice. It is meant for tests and demos, and can cap its batch size
// to behave like stores that return short batches.
package memstore

import (
	"context"
	"sync"

	"github.com/goliatone/go-repository-pager/internal/cursor"
	"github.com/goliatone/go-repository-pager/pager"
	"github.com/goliatone/go-repository-pager/pagination"
)

// Filter selects the items a call sees. A nil Filter matches everything.
type Filter[T any] func(T) bool

// Call records one store call.
type Call struct {
	Op       string
	MaxItems int
	Token    string
}

// Option configures a Store.
type Option func(*options)

type options struct {
	maxBatch int
}

// WithMaxBatch caps every batch at n items regardless of what the caller
// asks for. Zero means no cap.
func WithMaxBatch(n int) Option {
	return func(o *options) {
		o.maxBatch = n
	}
}

type position struct {
	Offset int `msgpack:"o"`
}

// Store holds items in insertion order. It is safe for concurrent use.
type Store[T any] struct {
	mu       sync.RWMutex
	items    []T
	maxBatch int

	callsMu sync.Mutex
	calls   []Call
}

var _ pager.Store[int, Filter[int]] = (*Store[int])(nil)

// New returns a store holding a copy of items.
func New[T any](items []T, opts ...Option) *Store[T] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return &Store[T]{
		items:    append([]T(nil), items...),
		maxBatch: o.maxBatch,
	}
}

// Append adds items to the end of the collection.
func (s *Store[T]) Append(items ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
}

// Len returns the number of items held, ignoring any filter.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Count returns the number of items matching filter.
func (s *Store[T]) Count(ctx context.Context, filter Filter[T]) (int, error) {
	s.record(Call{Op: pager.OpCount})
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if filter == nil {
		return len(s.items), nil
	}

	n := 0
	for _, item := range s.items {
		if filter(item) {
			n++
		}
	}
	return n, nil
}

// FetchBatch returns up to maxItems matching items after token. The returned
// token points past the last item scanned, so it resumes correctly even when
// the collection was exhausted and later grows.
func (s *Store[T]) FetchBatch(ctx context.Context, filter Filter[T], maxItems int, token string) (pager.Batch[T], error) {
	s.record(Call{Op: pager.OpFetchBatch, MaxItems: maxItems, Token: token})
	if err := ctx.Err(); err != nil {
		return pager.Batch[T]{}, err
	}
	if maxItems < 1 {
		return pager.Batch[T]{}, pagination.InvalidArgument("maxItems", "max items must be at least 1")
	}

	var pos position
	if token != "" {
		if err := cursor.Decode(token, &pos); err != nil {
			return pager.Batch[T]{}, err
		}
		if pos.Offset < 0 {
			return pager.Batch[T]{}, pagination.InvalidArgument("token", "continuation token points before the start")
		}
	}

	limit := maxItems
	if s.maxBatch > 0 && limit > s.maxBatch {
		limit = s.maxBatch
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	offset := min(pos.Offset, len(s.items))
	out := make([]T, 0, min(limit, len(s.items)-offset))
	for offset < len(s.items) && len(out) < limit {
		item := s.items[offset]
		offset++
		if filter == nil || filter(item) {
			out = append(out, item)
		}
	}

	next, err := cursor.Encode(position{Offset: offset})
	if err != nil {
		return pager.Batch[T]{}, err
	}
	return pager.Batch[T]{Items: out, Next: next}, nil
}

// Calls returns the calls recorded so far.
func (s *Store[T]) Calls() []Call {
	s.callsMu.Lock()
	defer s.callsMu.Unlock()
	return append([]Call(nil), s.calls...)
}

// ResetCalls forgets recorded calls.
func (s *Store[T]) ResetCalls() {
	s.callsMu.Lock()
	defer s.callsMu.Unlock()
	s.calls = nil
}

func (s *Store[T]) record(c Call) {
	s.callsMu.Lock()
	defer s.callsMu.Unlock()
	s.calls = append(s.calls, c)
}
