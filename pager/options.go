package pager

import (
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/goliatone/go-repository-pager/cache"
)

const tracerName = "github.com/goliatone/go-repository-pager/pager"

// Option configures a Reader.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	counts    cache.CacheService
	keys      cache.KeySerializer
	namespace string
	metrics   *Metrics
	tracer    trace.Tracer
}

func defaultOptions() options {
	return options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}
}

// WithLogger sets the structured logger. Readers log nothing by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithCountCache puts a read-through cache in front of Store.Count. Cached
// counts are keyed per namespace and filter, and dropped whenever the
// reader's item cache is reset. A nil serializer uses the default one.
// Filters a cache.StableKeySerializer reports as unstable, such as closures,
// are always counted by the store.
func WithCountCache(svc cache.CacheService, keys cache.KeySerializer) Option {
	return func(o *options) {
		o.counts = svc
		o.keys = keys
		if o.keys == nil {
			o.keys = cache.NewDefaultKeySerializer()
		}
	}
}

// WithNamespace sets the count-cache namespace. Readers sharing a namespace
// share cached counts, so only pass the same one to readers over the same
// data. By default every reader gets its own namespace: the snake_case plural
// of the item type name followed by a random suffix.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithMetrics records reader activity on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithTracer sets the tracer used for FetchPage spans. A no-op tracer is used
// by default.
func WithTracer(tracer trace.Tracer) Option {
	return func(o *options) {
		if tracer != nil {
			o.tracer = tracer
		}
	}
}
