package pager

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the prometheus collectors updated by readers. One Metrics
// value can be shared by any number of readers. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	countQueries prometheus.Counter
	deltaFetches prometheus.Counter
	itemsFetched prometheus.Counter
	cacheResets  prometheus.Counter
	storeErrors  *prometheus.CounterVec
	cachedItems  prometheus.Gauge
}

// NewMetrics builds the collectors under the given metric namespace,
// "pager" when empty. Register them with Register.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "pager"
	}

	return &Metrics{
		countQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "count_queries_total",
			Help:      "Count queries sent to stores.",
		}),
		deltaFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "delta_fetches_total",
			Help:      "Batch fetches issued to fill a page.",
		}),
		itemsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "items_fetched_total",
			Help:      "Items received from stores.",
		}),
		cacheResets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_resets_total",
			Help:      "Item caches cleared after expiry or an explicit reset.",
		}),
		storeErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_errors_total",
			Help:      "Store calls that failed, by operation.",
		}, []string{"op"}),
		cachedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cached_items",
			Help:      "Items currently held across all reader caches.",
		}),
	}
}

// Collectors returns every collector, for custom registration.
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.countQueries,
		m.deltaFetches,
		m.itemsFetched,
		m.cacheResets,
		m.storeErrors,
		m.cachedItems,
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) countQuery() {
	if m == nil {
		return
	}
	m.countQueries.Inc()
}

func (m *Metrics) deltaFetch(received, added int) {
	if m == nil {
		return
	}
	m.deltaFetches.Inc()
	m.itemsFetched.Add(float64(received))
	m.cachedItems.Add(float64(added))
}

func (m *Metrics) cacheReset(dropped int) {
	if m == nil {
		return
	}
	m.cacheResets.Inc()
	m.cachedItems.Sub(float64(dropped))
}

func (m *Metrics) released(dropped int) {
	if m == nil {
		return
	}
	m.cachedItems.Sub(float64(dropped))
}

func (m *Metrics) storeError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}
