package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/onflow/flow-narwhal/module"
)

type StorageCollector struct {
	retryOnConflictCounter prometheus.Counter
	skipDuplicatesCounter  prometheus.Counter
}

var _ module.StorageMetrics = (*StorageCollector)(nil)

func NewStorageCollector(registerer prometheus.Registerer) *StorageCollector {
	sc := &StorageCollector{
		retryOnConflictCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNarwhal,
			Subsystem: subsystemBadger,
			Name:      "retry_on_conflict_total",
			Help:      "the number of badger transactions retried after a conflict",
		}),
		skipDuplicatesCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespaceNarwhal,
			Subsystem: subsystemStorage,
			Name:      "skip_duplicates_total",
			Help:      "the number of inserts skipped because the value was already stored",
		}),
	}
	registerer.MustRegister(sc.retryOnConflictCounter, sc.skipDuplicatesCounter)
	return sc
}

// SkipDuplicate records an insert skipped because the value was already stored.
func (sc *StorageCollector) SkipDuplicate() {
	sc.skipDuplicatesCounter.Inc()
}

// RetryOnConflict records a transaction retried after a conflict.
func (sc *StorageCollector) RetryOnConflict() {
	sc.retryOnConflictCounter.Inc()
}
