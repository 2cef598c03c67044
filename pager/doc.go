// Package pager serves numbered pages from stores that only hand out bounded
// batches behind an opaque continuation token.
//
// # Overview
//
// A Reader keeps every item it has pulled from a Store in an ItemCache,
// usually a *cache.IncrementalCache. For each FetchPage call it:
//
//  1. clears the cache and the token when the cache has expired
//  2. counts the matching items (optionally through a count cache)
//  3. builds the page descriptor
//  4. asks the store for the items the page needs beyond what is cached,
//     resuming from the last token
//  5. slices the page out of the cache
//
// Walking forward through pages therefore costs one delta fetch per page,
// and going back to an earlier page costs no fetch at all.
//
// # Basic Usage
//
//	items := cache.NewIncremental[string](5 * time.Minute)
//	reader, err := pager.New[string, memstore.Filter[string]](store, items,
//		pager.WithLogger(logger),
//	)
//	page, err := reader.FetchPage(ctx, nil, 2, 10)
//
// # Stores
//
// Anything with Count and FetchBatch is a Store. StoreFuncs adapts plain
// functions. See the memstore and bunstore packages for ready made stores.
//
// # Count caching
//
// WithCountCache puts a cache.CacheService in front of Store.Count. Counts
// are keyed under the reader's namespace and dropped with DeleteByPrefix
// whenever the reader resets its item cache. Each reader has a namespace of
// its own unless WithNamespace gives several the same one. Closure and
// criteria filters are counted by the store on every call.
//
// # Errors
//
// Invalid page arguments fail with pagination.InvalidArgument before any
// store call. Failures from the store are returned as StoreError, wrapping
// the original error, and leave the reader's state unchanged. A store that
// returns an empty batch while reporting more items than are cached is only
// logged as pager.inconsistent_store.
//
// # Concurrency
//
// A Reader is single caller. Locked serializes calls to one reader and
// Sessions keeps one locked reader per session id.
//
// # Observability
//
// Readers log with log/slog (debug for resets and delta fetches, warn for
// inconsistent stores, error for store failures), record prometheus metrics
// through Metrics and open a pager.FetchPage span per call.
package pager
