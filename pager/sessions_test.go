package pager

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/goliatone/go-repository-pager/cache"
	"github.com/goliatone/go-repository-pager/pagination"
)

func newTestSessions(t *testing.T, store *fakeStore, opts ...Option) (*Sessions[string, string], *int) {
	t.Helper()

	var (
		mu    sync.Mutex
		built int
	)
	sessions, err := NewSessions[string, string](func(id string) (*Reader[string, string], error) {
		mu.Lock()
		built++
		mu.Unlock()
		return New[string, string](store, cache.NewIncremental[string](time.Minute), opts...)
	})
	if err != nil {
		t.Fatalf("NewSessions() failed: %v", err)
	}
	return sessions, &built
}

func TestNewSessions_NilFactory(t *testing.T) {
	if _, err := NewSessions[string, string](nil); !pagination.IsInvalidArgument(err) {
		t.Errorf("expected InvalidArgument for nil factory, got %v", err)
	}
}

func TestSessions_OneReaderPerID(t *testing.T) {
	store := newFakeStore(25)
	sessions, built := newTestSessions(t, store)
	ctx := context.Background()

	if _, err := sessions.FetchPage(ctx, "alice", "", 2, 10); err != nil {
		t.Fatalf("FetchPage() unexpected error: %v", err)
	}
	if _, err := sessions.FetchPage(ctx, "bob", "", 1, 10); err != nil {
		t.Fatalf("FetchPage() unexpected error: %v", err)
	}
	if _, err := sessions.FetchPage(ctx, "alice", "", 1, 10); err != nil {
		t.Fatalf("FetchPage() unexpected error: %v", err)
	}

	if *built != 2 {
		t.Errorf("expected 2 readers built, got %d", *built)
	}
	if sessions.Len() != 2 {
		t.Errorf("expected 2 sessions, got %d", sessions.Len())
	}

	alice, _ := sessions.Get("alice")
	bob, _ := sessions.Get("bob")
	if alice.CachedCount() != 20 || bob.CachedCount() != 10 {
		t.Errorf("expected independent caches, got alice=%d bob=%d", alice.CachedCount(), bob.CachedCount())
	}
	if alice.Token() != "20" || bob.Token() != "10" {
		t.Errorf("expected independent tokens, got alice=%q bob=%q", alice.Token(), bob.Token())
	}
}

func TestSessions_Drop(t *testing.T) {
	metrics := NewMetrics("sessions")
	store := newFakeStore(25)
	sessions, built := newTestSessions(t, store, WithMetrics(metrics))
	ctx := context.Background()

	_, _ = sessions.FetchPage(ctx, "alice", "", 2, 10)
	if got := testutil.ToFloat64(metrics.cachedItems); got != 20 {
		t.Errorf("expected 20 cached items, got %v", got)
	}

	sessions.Drop("alice")
	sessions.Drop("nobody")

	if sessions.Len() != 0 {
		t.Errorf("expected no sessions after drop, got %d", sessions.Len())
	}
	if got := testutil.ToFloat64(metrics.cachedItems); got != 0 {
		t.Errorf("expected dropped items to leave the gauge, got %v", got)
	}

	alice, err := sessions.Get("alice")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if alice.CachedCount() != 0 {
		t.Errorf("expected a fresh reader after drop, got %d cached", alice.CachedCount())
	}
	if *built != 2 {
		t.Errorf("expected the reader to be rebuilt, got %d builds", *built)
	}
}

func TestSessions_FactoryError(t *testing.T) {
	boom := errors.New("no reader for you")
	sessions, err := NewSessions[string, string](func(id string) (*Reader[string, string], error) {
		return nil, boom
	})
	if err != nil {
		t.Fatalf("NewSessions() failed: %v", err)
	}

	if _, err := sessions.FetchPage(context.Background(), "alice", "", 1, 10); !errors.Is(err, boom) {
		t.Errorf("expected factory error, got %v", err)
	}
	if sessions.Len() != 0 {
		t.Errorf("expected failed builds not to be stored, got %d sessions", sessions.Len())
	}
}

func TestSessions_ConcurrentCallsAreSerialized(t *testing.T) {
	store := newFakeStore(100)
	sessions, built := newTestSessions(t, store)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(pageNumber int) {
			defer wg.Done()
			page, err := sessions.FetchPage(ctx, "shared", "", pageNumber, 10)
			if err != nil {
				errs <- err
				return
			}
			if page.Len() != 10 {
				errs <- errors.New("short page")
			}
		}(i%10 + 1)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected error: %v", err)
	}
	if *built != 1 {
		t.Errorf("expected a single reader for the shared session, got %d", *built)
	}

	shared, _ := sessions.Get("shared")
	if shared.CachedCount() > 100 {
		t.Errorf("expected at most 100 cached items, got %d", shared.CachedCount())
	}
}
