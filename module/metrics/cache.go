package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onflow/flow-narwhal/module"
)

// CacheCollector reports the read caches in front of the badger stores.
type CacheCollector struct {
	entries   *prometheus.GaugeVec
	hits      *prometheus.CounterVec
	notfounds *prometheus.CounterVec
	misses    *prometheus.CounterVec
}

var _ module.CacheMetrics = (*CacheCollector)(nil)

func NewCacheCollector(registerer prometheus.Registerer) *CacheCollector {
	cc := &CacheCollector{
		entries: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:      "entries_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemCache,
			Help:      "the number of entries in the cache",
		}, []string{LabelResource}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "hits_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemCache,
			Help:      "the number of hits for the cache",
		}, []string{LabelResource}),
		notfounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "notfounds_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemCache,
			Help:      "the number of times the queried item was not found in either cache or database",
		}, []string{LabelResource}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:      "misses_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemCache,
			Help:      "the number of times the queried item was found in the database but not in the cache",
		}, []string{LabelResource}),
	}
	registerer.MustRegister(cc.entries, cc.hits, cc.notfounds, cc.misses)
	return cc
}

// CacheEntries records the number of cached entries of a resource.
func (cc *CacheCollector) CacheEntries(resource string, entries uint) {
	cc.entries.With(prometheus.Labels{LabelResource: resource}).Set(float64(entries))
}

// CacheHit records a cache hit for a resource.
func (cc *CacheCollector) CacheHit(resource string) {
	cc.hits.With(prometheus.Labels{LabelResource: resource}).Inc()
}

// CacheNotFound records the number of times the queried item was not found in either cache
// or database.
func (cc *CacheCollector) CacheNotFound(resource string) {
	cc.notfounds.With(prometheus.Labels{LabelResource: resource}).Inc()
}

// CacheMiss report the number of times the queried item is not found in the cache, but found in the database.
func (cc *CacheCollector) CacheMiss(resource string) {
	cc.misses.With(prometheus.Labels{LabelResource: resource}).Inc()
}
