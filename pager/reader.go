package pager

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-repository-pager/cache"
	"github.com/goliatone/go-repository-pager/pagination"
)

// ItemCache is the local item store a Reader fills. It is satisfied by
// *cache.IncrementalCache for any key type.
type ItemCache[T any] interface {
	IsExpired() bool
	Count() int
	Clear()
	AddAll(items []T) int
	Range(lo, hi int) []T
	Generation() string
}

var _ ItemCache[string] = (*cache.IncrementalCache[string, string])(nil)

// Reader serves numbered pages from a cursor-based Store. It keeps every
// item it has pulled in an ItemCache and only asks the store for the items a
// page needs beyond what is cached, resuming from the store's last
// continuation token.
//
// A Reader is not safe for concurrent use. Wrap it with Locked, or use
// Sessions, when calls can overlap.
type Reader[T any, F any] struct {
	store      Store[T, F]
	items      ItemCache[T]
	token      string
	forceReset bool

	logger    *slog.Logger
	counts    cache.CacheService
	keys      cache.KeySerializer
	namespace string
	metrics   *Metrics
	tracer    trace.Tracer
}

// New builds a Reader over store, caching items in itemCache.
func New[T any, F any](store Store[T, F], itemCache ItemCache[T], opts ...Option) (*Reader[T, F], error) {
	if store == nil {
		return nil, pagination.InvalidArgument("store", "store is required")
	}
	if itemCache == nil {
		return nil, pagination.InvalidArgument("itemCache", "item cache is required")
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.namespace == "" {
		o.namespace = defaultNamespace[T]() + "-" + uuid.NewString()
	}

	return &Reader[T, F]{
		store:     store,
		items:     itemCache,
		logger:    o.logger,
		counts:    o.counts,
		keys:      o.keys,
		namespace: o.namespace,
		metrics:   o.metrics,
		tracer:    o.tracer,
	}, nil
}

// FetchPage returns page pageNumber of size pageSize for filter.
//
// The store is counted on every call (or the count cache consulted), then
// at most one FetchBatch call pulls the items missing from the cache for
// this page. A short batch leaves the page under-filled; the next call tops
// it up. On a store error the cache and token are left as they were.
//
// pageNumber and pageSize must be at least 1.
func (r *Reader[T, F]) FetchPage(ctx context.Context, filter F, pageNumber, pageSize int) (pagination.Page[T], error) {
	if _, err := pagination.NewDescriptor(0, pageNumber, pageSize); err != nil {
		return pagination.Page[T]{}, err
	}

	ctx, span := r.tracer.Start(ctx, "pager.FetchPage", trace.WithAttributes(
		attribute.String("pager.namespace", r.namespace),
		attribute.Int("pager.page_number", pageNumber),
		attribute.Int("pager.page_size", pageSize),
	))
	defer span.End()

	page, err := r.fetchPage(ctx, filter, pageNumber, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return pagination.Page[T]{}, err
	}

	span.SetAttributes(
		attribute.Int("pager.total_count", page.TotalCount),
		attribute.Int("pager.cached_count", r.items.Count()),
		attribute.String("pager.generation", r.items.Generation()),
	)
	return page, nil
}

func (r *Reader[T, F]) fetchPage(ctx context.Context, filter F, pageNumber, pageSize int) (pagination.Page[T], error) {
	if r.forceReset || r.items.IsExpired() {
		r.resetCache(ctx)
	}

	total, err := r.count(ctx, filter)
	if err != nil {
		return pagination.Page[T]{}, err
	}

	desc, err := pagination.NewDescriptor(total, pageNumber, pageSize)
	if err != nil {
		// only a negative count from the store gets here
		return pagination.Page[T]{}, r.storeError(ctx, OpCount, err)
	}

	cached := r.items.Count()
	toFetch := max(0, pageNumber*pageSize-cached)
	if total == cached {
		toFetch = 0
	}

	if toFetch > 0 {
		if err := r.fetchDelta(ctx, filter, toFetch, total); err != nil {
			return pagination.Page[T]{}, err
		}
	}

	lo := (pageNumber - 1) * pageSize
	return pagination.NewPage(&desc, r.items.Range(lo, lo+pageSize))
}

func (r *Reader[T, F]) count(ctx context.Context, filter F) (int, error) {
	query := func(ctx context.Context) (int, error) {
		r.metrics.countQuery()
		return r.store.Count(ctx, filter)
	}

	var (
		total int
		err   error
	)
	key, stable := r.countKey(filter)
	switch {
	case r.counts == nil:
		total, err = query(ctx)
	case !stable:
		r.logger.DebugContext(ctx, "pager.count_uncached", "namespace", r.namespace, "key", key)
		total, err = query(ctx)
	default:
		total, err = cache.GetOrFetch[int](ctx, r.counts, key, query)
	}
	if err != nil {
		return 0, r.storeError(ctx, OpCount, err)
	}
	return total, nil
}

func (r *Reader[T, F]) fetchDelta(ctx context.Context, filter F, toFetch, total int) error {
	batch, err := r.store.FetchBatch(ctx, filter, toFetch, r.token)
	if err != nil {
		return r.storeError(ctx, OpFetchBatch, err)
	}

	added := r.items.AddAll(batch.Items)
	r.token = batch.Next
	r.metrics.deltaFetch(len(batch.Items), added)

	r.logger.DebugContext(ctx, "pager.delta_fetch",
		"namespace", r.namespace,
		"requested", toFetch,
		"received", len(batch.Items),
		"added", added,
		"cached", r.items.Count(),
		"generation", r.items.Generation(),
	)

	if len(batch.Items) == 0 && total > r.items.Count() {
		r.logger.WarnContext(ctx, "pager.inconsistent_store",
			"namespace", r.namespace,
			"total", total,
			"cached", r.items.Count(),
			"token", r.token,
		)
	}
	return nil
}

func (r *Reader[T, F]) resetCache(ctx context.Context) {
	dropped := r.items.Count()
	previous := r.items.Generation()

	r.items.Clear()
	r.token = ""
	r.forceReset = false

	if r.counts != nil {
		if err := r.counts.DeleteByPrefix(ctx, r.countPrefix()); err != nil {
			r.logger.WarnContext(ctx, "pager.count_cache_error", "namespace", r.namespace, "error", err)
		}
	}

	r.metrics.cacheReset(dropped)
	r.logger.DebugContext(ctx, "pager.cache_reset",
		"namespace", r.namespace,
		"dropped", dropped,
		"previous_generation", previous,
		"generation", r.items.Generation(),
	)
}

func (r *Reader[T, F]) storeError(ctx context.Context, op string, err error) error {
	r.metrics.storeError(op)
	r.logger.ErrorContext(ctx, "pager.store_error",
		"namespace", r.namespace,
		"op", op,
		"error", err,
	)
	return StoreError(op, err)
}

func (r *Reader[T, F]) countPrefix() string {
	return r.namespace + cache.KeySeparator
}

// countKey reports false when the filter can't be told apart by its key,
// as with closures, and the count must come from the store.
func (r *Reader[T, F]) countKey(filter F) (string, bool) {
	if r.keys == nil {
		return "", false
	}
	if keys, ok := r.keys.(cache.StableKeySerializer); ok {
		key, stable := keys.SerializeStableKey("Count", filter)
		return r.countPrefix() + key, stable
	}
	return r.countPrefix() + r.keys.SerializeKey("Count", filter), true
}

// release drops the reader's contribution to the cached_items gauge.
func (r *Reader[T, F]) release() {
	r.metrics.released(r.items.Count())
}

// Token returns the continuation token the next delta fetch will resume from.
func (r *Reader[T, F]) Token() string {
	return r.token
}

// CachedCount returns the number of items held locally.
func (r *Reader[T, F]) CachedCount() int {
	return r.items.Count()
}

// Generation identifies the current item cache window.
func (r *Reader[T, F]) Generation() string {
	return r.items.Generation()
}

// Namespace returns the count-cache namespace.
func (r *Reader[T, F]) Namespace() string {
	return r.namespace
}

// Reset makes the next FetchPage call start over as if the cache had expired.
func (r *Reader[T, F]) Reset() {
	r.forceReset = true
}
