package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-repository-pager/internal/cacheinfra"
)

// DefaultPageTTL is how long a reader keeps its incremental item cache before
// rebuilding it from the store.
const DefaultPageTTL = 5 * time.Minute

// Config exposes cache configuration options for consumers of the cache package.
//
// Capacity, NumShards, TTL, EvictionPercentage, EarlyRefresh,
// MissingRecordStorage and EvictionInterval configure the shared count cache.
// PageTTL is the lifetime of each reader's incremental item cache.
type Config struct {
	Capacity             int
	NumShards            int
	TTL                  time.Duration
	EvictionPercentage   int
	EarlyRefresh         *EarlyRefreshConfig
	MissingRecordStorage bool
	EvictionInterval     time.Duration
	PageTTL              time.Duration
}

// EarlyRefreshConfig mirrors the underlying sturdyc early refresh options.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// envConfig lists the scalar settings that can be overridden from the
// environment. Variables are read with the prefix given to LoadConfigFromEnv.
type envConfig struct {
	Capacity           int           `env:"CACHE_CAPACITY"`
	NumShards          int           `env:"CACHE_SHARDS"`
	TTL                time.Duration `env:"CACHE_TTL"`
	EvictionPercentage int           `env:"CACHE_EVICTION_PERCENTAGE"`
	EvictionInterval   time.Duration `env:"CACHE_EVICTION_INTERVAL"`
	PageTTL            time.Duration `env:"PAGE_TTL"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	cfg := convertFromInternal(cacheinfra.DefaultConfig())
	cfg.PageTTL = DefaultPageTTL
	return cfg
}

// LoadConfigFromEnv starts from DefaultConfig and applies any of the
// <prefix>CACHE_CAPACITY, <prefix>CACHE_SHARDS, <prefix>CACHE_TTL,
// <prefix>CACHE_EVICTION_PERCENTAGE, <prefix>CACHE_EVICTION_INTERVAL and
// <prefix>PAGE_TTL variables that are set. The result is validated.
func LoadConfigFromEnv(prefix string) (Config, error) {
	cfg := DefaultConfig()

	overrides := envConfig{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		PageTTL:            cfg.PageTTL,
	}
	if err := env.ParseWithOptions(&overrides, env.Options{Prefix: prefix}); err != nil {
		return Config{}, fmt.Errorf("parse cache env: %w", err)
	}

	cfg.Capacity = overrides.Capacity
	cfg.NumShards = overrides.NumShards
	cfg.TTL = overrides.TTL
	cfg.EvictionPercentage = overrides.EvictionPercentage
	cfg.EvictionInterval = overrides.EvictionInterval
	cfg.PageTTL = overrides.PageTTL

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.PageTTL, validation.Required, validation.Min(time.Millisecond)),
	); err != nil {
		return err
	}
	return c.toInternal().Validate()
}

// NewCacheService constructs the default cache service implementation using the provided configuration.
func NewCacheService(cfg Config) (CacheService, error) {
	svc, err := cacheinfra.NewSturdycService(cfg.toInternal())
	if err != nil {
		return nil, err
	}
	return serviceAdapter{svc}, nil
}

// serviceAdapter bridges the infra service, which cannot import this package,
// to CacheService.
type serviceAdapter struct {
	*cacheinfra.SturdycService
}

func (a serviceAdapter) GetOrFetch(ctx context.Context, key string, fetchFn FetchFn[any]) (any, error) {
	return a.SturdycService.GetOrFetch(ctx, key, fetchFn)
}

func (c Config) toInternal() cacheinfra.Config {
	var early *cacheinfra.EarlyRefreshConfig
	if c.EarlyRefresh != nil {
		early = &cacheinfra.EarlyRefreshConfig{
			MinAsyncRefreshTime: c.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: c.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     c.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      c.EarlyRefresh.RetryBaseDelay,
		}
	}

	return cacheinfra.Config{
		Capacity:             c.Capacity,
		NumShards:            c.NumShards,
		TTL:                  c.TTL,
		EvictionPercentage:   c.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: c.MissingRecordStorage,
		EvictionInterval:     c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	var early *EarlyRefreshConfig
	if cfg.EarlyRefresh != nil {
		early = &EarlyRefreshConfig{
			MinAsyncRefreshTime: cfg.EarlyRefresh.MinAsyncRefreshTime,
			MaxAsyncRefreshTime: cfg.EarlyRefresh.MaxAsyncRefreshTime,
			SyncRefreshTime:     cfg.EarlyRefresh.SyncRefreshTime,
			RetryBaseDelay:      cfg.EarlyRefresh.RetryBaseDelay,
		}
	}

	return Config{
		Capacity:             cfg.Capacity,
		NumShards:            cfg.NumShards,
		TTL:                  cfg.TTL,
		EvictionPercentage:   cfg.EvictionPercentage,
		EarlyRefresh:         early,
		MissingRecordStorage: cfg.MissingRecordStorage,
		EvictionInterval:     cfg.EvictionInterval,
	}
}
