// Package cache holds the caching building blocks used by the pager.
//
// # Overview
//
// The package exports three pieces:
//
//   - IncrementalCache: an append-only, insertion-ordered item set with a TTL
//   - CacheService: a read-through cache for values such as collection counts
//   - KeySerializer: builds stable cache keys from method names and arguments
//
// # Incremental cache
//
// An IncrementalCache grows as a reader walks forward through a collection.
// Items are deduplicated by key, so re-adding an item already present is a
// no-op and never reorders. The whole cache expires at once:
//
//	items := cache.NewIncremental[string](5 * time.Minute)
//	items.AddAll([]string{"a", "b", "a"}) // 2
//	if items.IsExpired() {
//		items.Clear()
//	}
//
// Items that are not comparable can be deduplicated by a derived key:
//
//	items := cache.NewIncrementalFunc(ttl, cache.HashKey[User])
//
// # Count cache
//
// NewCacheService builds a CacheService on top of sturdyc. Use the generic
// GetOrFetch for typed access:
//
//	keys := cache.NewPrefixedKeySerializer("users")
//	total, err := cache.GetOrFetch(ctx, svc, keys.SerializeKey("Count", filter), func(ctx context.Context) (int, error) {
//		return store.Count(ctx, filter)
//	})
//
// Keys built by a prefixed serializer can be dropped together with
// DeleteByPrefix.
//
// # Key serialization
//
// The default key serializer uses reflection:
//
//   - Function values are keyed by pointer, stable within a single process
//   - Basic types use their %v form
//   - Slices, arrays and maps are serialized recursively, maps sorted by entry
//   - Structs list their exported fields as name:value pairs
//   - Anything else falls back to JSON, then to its type name
//
// Closures created at different call sites get different keys even when they
// behave the same. Share the filter value, or write a KeySerializer that names
// filters explicitly, when counts must be shared between readers.
//
// # Configuration
//
// Config combines the count cache settings with PageTTL, the lifetime of a
// reader's incremental cache. LoadConfigFromEnv reads overrides from
// prefixed environment variables.
package cache
