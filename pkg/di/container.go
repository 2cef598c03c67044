package di

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-repository-pager/cache"
	"github.com/goliatone/go-repository-pager/pager"
)

// Container provides dependency injection for pager components.
// It owns the shared count cache, key serializer, logger and metrics, and
// builds readers that use them.
type Container struct {
	config        cache.Config
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	logger        *slog.Logger
	metrics       *pager.Metrics
	tracer        trace.Tracer
	now           func() time.Time
}

// Option customizes a Container.
type Option func(*Container)

// WithLogger sets the logger handed to every reader.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records every reader's activity on m.
func WithMetrics(m *pager.Metrics) Option {
	return func(c *Container) {
		c.metrics = m
	}
}

// WithTracer sets the tracer handed to every reader.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *Container) {
		c.tracer = tracer
	}
}

// WithKeySerializer replaces the default count-cache key serializer.
func WithKeySerializer(keys cache.KeySerializer) Option {
	return func(c *Container) {
		if keys != nil {
			c.keySerializer = keys
		}
	}
}

// WithClock sets the time source of the item caches built by the container.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// NewContainer validates config and builds the shared count cache.
func NewContainer(config cache.Config, opts ...Option) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	cacheService, err := cache.NewCacheService(config)
	if err != nil {
		return nil, err
	}

	c := &Container{
		config:        config,
		cacheService:  cacheService,
		keySerializer: cache.NewDefaultKeySerializer(),
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewContainerWithDefaults creates a container from cache.DefaultConfig.
func NewContainerWithDefaults(opts ...Option) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// NewContainerFromEnv creates a container from cache.LoadConfigFromEnv.
func NewContainerFromEnv(prefix string, opts ...Option) (*Container, error) {
	config, err := cache.LoadConfigFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return NewContainer(config, opts...)
}

// CacheService returns the shared count cache.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() cache.Config {
	return c.config
}

// Logger returns the logger handed to readers.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// Metrics returns the shared metrics, nil when none were configured.
func (c *Container) Metrics() *pager.Metrics {
	return c.metrics
}

func (c *Container) readerOptions(extra []pager.Option) []pager.Option {
	opts := []pager.Option{
		pager.WithLogger(c.logger),
		pager.WithCountCache(c.cacheService, c.keySerializer),
		pager.WithMetrics(c.metrics),
	}
	if c.tracer != nil {
		opts = append(opts, pager.WithTracer(c.tracer))
	}
	return append(opts, extra...)
}

// NewReader builds a reader over store with an item cache that lives for
// Config.PageTTL and deduplicates items by equality.
//
// Since Go methods cannot have type parameters, this is provided as a package-level function.
// Example: NewReader[User, memstore.Filter[User]](container, store)
func NewReader[T comparable, F any](c *Container, store pager.Store[T, F], opts ...pager.Option) (*pager.Reader[T, F], error) {
	items := cache.NewIncremental[T](c.config.PageTTL, cache.WithClock(c.now))
	return pager.New[T, F](store, items, c.readerOptions(opts)...)
}

// NewReaderFunc is NewReader for items deduplicated by key.
func NewReaderFunc[T any, K comparable, F any](c *Container, store pager.Store[T, F], key func(T) K, opts ...pager.Option) (*pager.Reader[T, F], error) {
	items := cache.NewIncrementalFunc(c.config.PageTTL, key, cache.WithClock(c.now))
	return pager.New[T, F](store, items, c.readerOptions(opts)...)
}

// NewSessions builds a session registry whose readers are created with
// NewReaderFunc. Sessions share the container's count cache.
func NewSessions[T any, K comparable, F any](c *Container, store pager.Store[T, F], key func(T) K, opts ...pager.Option) (*pager.Sessions[T, F], error) {
	return pager.NewSessions[T, F](func(sessionID string) (*pager.Reader[T, F], error) {
		return NewReaderFunc[T, K, F](c, store, key, opts...)
	})
}
