package pager

import (
	"context"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-repository-pager/pagination"
)

// Locked serializes calls to a single Reader.
type Locked[T any, F any] struct {
	mu     sync.Mutex
	reader *Reader[T, F]
}

// NewLocked wraps reader.
func NewLocked[T any, F any](reader *Reader[T, F]) *Locked[T, F] {
	return &Locked[T, F]{reader: reader}
}

// FetchPage calls Reader.FetchPage while holding the lock.
func (l *Locked[T, F]) FetchPage(ctx context.Context, filter F, pageNumber, pageSize int) (pagination.Page[T], error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reader.FetchPage(ctx, filter, pageNumber, pageSize)
}

// Reset calls Reader.Reset while holding the lock.
func (l *Locked[T, F]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reader.Reset()
}

// CachedCount calls Reader.CachedCount while holding the lock.
func (l *Locked[T, F]) CachedCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reader.CachedCount()
}

// Token calls Reader.Token while holding the lock.
func (l *Locked[T, F]) Token() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reader.Token()
}

func (l *Locked[T, F]) release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reader.release()
}

// ReaderFactory builds the reader for a new session.
type ReaderFactory[T any, F any] func(sessionID string) (*Reader[T, F], error)

// Sessions keeps one reader per session id, so each caller walks its own
// cursor. Readers are created on first use. Sessions is safe for concurrent
// use; calls for the same session are serialized.
type Sessions[T any, F any] struct {
	factory ReaderFactory[T, F]
	readers *xsync.MapOf[string, *Locked[T, F]]
}

// NewSessions returns an empty registry that builds readers with factory.
func NewSessions[T any, F any](factory ReaderFactory[T, F]) (*Sessions[T, F], error) {
	if factory == nil {
		return nil, pagination.InvalidArgument("factory", "reader factory is required")
	}
	return &Sessions[T, F]{
		factory: factory,
		readers: xsync.NewMapOf[string, *Locked[T, F]](),
	}, nil
}

// Get returns the reader for sessionID, building it if needed. A factory
// error is returned as is and nothing is stored.
func (s *Sessions[T, F]) Get(sessionID string) (*Locked[T, F], error) {
	var factoryErr error
	locked, _ := s.readers.LoadOrTryCompute(sessionID, func() (*Locked[T, F], bool) {
		reader, err := s.factory(sessionID)
		if err != nil {
			factoryErr = err
			return nil, true
		}
		return NewLocked(reader), false
	})
	if factoryErr != nil {
		return nil, factoryErr
	}
	return locked, nil
}

// FetchPage fetches a page with the reader of sessionID.
func (s *Sessions[T, F]) FetchPage(ctx context.Context, sessionID string, filter F, pageNumber, pageSize int) (pagination.Page[T], error) {
	locked, err := s.Get(sessionID)
	if err != nil {
		return pagination.Page[T]{}, err
	}
	return locked.FetchPage(ctx, filter, pageNumber, pageSize)
}

// Drop forgets sessionID. The next Get builds a fresh reader.
func (s *Sessions[T, F]) Drop(sessionID string) {
	if locked, ok := s.readers.LoadAndDelete(sessionID); ok {
		locked.release()
	}
}

// Len returns the number of live sessions.
func (s *Sessions[T, F]) Len() int {
	return s.readers.Size()
}
