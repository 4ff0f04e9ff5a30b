package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/module/counters"
)

// OrderingCollector reports the progress of the DAG and the commit rule.
type OrderingCollector struct {
	insertedCertificates  prometheus.Counter
	highestInsertedRound  prometheus.Gauge
	dagCertificates       prometheus.Gauge
	dagRounds             prometheus.Gauge
	committedRound        prometheus.Gauge
	committedSubDags      prometheus.Counter
	committedCertificates prometheus.Counter
	commitLatency         prometheus.Histogram
	subDagSize            prometheus.Histogram
	skippedLeaders        prometheus.Counter
	leaderTimeouts        prometheus.Counter
	equivocations         prometheus.Counter
	pendingCertificates   prometheus.Gauge
	gcRound               prometheus.Gauge

	highestRound counters.StrictMonotonousCounter
}

var _ module.OrderingMetrics = (*OrderingCollector)(nil)

func NewOrderingCollector(registerer prometheus.Registerer) *OrderingCollector {
	oc := &OrderingCollector{
		highestRound: counters.NewMonotonousCounter(0),
		insertedCertificates: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "certificates_inserted_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemDAG,
			Help:      "the number of certificates inserted into the DAG",
		}),
		highestInsertedRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "highest_round",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemDAG,
			Help:      "the highest round of any certificate inserted into the DAG",
		}),
		dagCertificates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "certificates",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemDAG,
			Help:      "the number of certificates held in memory",
		}),
		dagRounds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "rounds",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemDAG,
			Help:      "the number of rounds held in memory",
		}),
		committedRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "committed_round",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemOrderer,
			Help:      "the round of the last committed leader",
		}),
		committedSubDags: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "committed_subdags_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemOrderer,
			Help:      "the number of committed leaders",
		}),
		committedCertificates: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "committed_certificates_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemOrderer,
			Help:      "the number of certificates delivered in committed order",
		}),
		commitLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:      "commit_latency_seconds",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemOrderer,
			Help:      "time between inserting a leader certificate and committing it",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2, 5, 10},
		}),
		subDagSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:      "subdag_certificates",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemOrderer,
			Help:      "the number of certificates ordered by one commit",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		skippedLeaders: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "skipped_leaders_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemOrderer,
			Help:      "the number of leader rounds decided as skipped",
		}),
		leaderTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "leader_timeouts_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemOrderer,
			Help:      "the number of leader rounds the DAG advanced past without committing them",
		}),
		equivocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name:      "equivocations_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemDAG,
			Help:      "the number of conflicting certificates rejected",
		}),
		pendingCertificates: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "certificates",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemPending,
			Help:      "the number of certificates waiting for missing parents",
		}),
		gcRound: prometheus.NewGauge(prometheus.GaugeOpts{
			Name:      "gc_round",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemDAG,
			Help:      "the lowest round retained in memory",
		}),
	}

	registerer.MustRegister(
		oc.insertedCertificates,
		oc.highestInsertedRound,
		oc.dagCertificates,
		oc.dagRounds,
		oc.committedRound,
		oc.committedSubDags,
		oc.committedCertificates,
		oc.commitLatency,
		oc.subDagSize,
		oc.skippedLeaders,
		oc.leaderTimeouts,
		oc.equivocations,
		oc.pendingCertificates,
		oc.gcRound,
	)
	return oc
}

func (oc *OrderingCollector) CertificateInserted(round uint64) {
	oc.insertedCertificates.Inc()
	if oc.highestRound.Set(round) {
		oc.highestInsertedRound.Set(float64(round))
	}
}

func (oc *OrderingCollector) DAGSize(certificates uint, rounds uint) {
	oc.dagCertificates.Set(float64(certificates))
	oc.dagRounds.Set(float64(rounds))
}

func (oc *OrderingCollector) SubDagCommitted(leaderRound uint64, certificates int, latency time.Duration) {
	oc.committedRound.Set(float64(leaderRound))
	oc.committedSubDags.Inc()
	oc.committedCertificates.Add(float64(certificates))
	oc.subDagSize.Observe(float64(certificates))
	oc.commitLatency.Observe(latency.Seconds())
}

func (oc *OrderingCollector) LeaderSkipped(round uint64) {
	oc.skippedLeaders.Inc()
}

func (oc *OrderingCollector) LeaderTimeout(round uint64) {
	oc.leaderTimeouts.Inc()
}

func (oc *OrderingCollector) EquivocationDetected() {
	oc.equivocations.Inc()
}

func (oc *OrderingCollector) PendingCertificates(count uint) {
	oc.pendingCertificates.Set(float64(count))
}

func (oc *OrderingCollector) GarbageCollected(gcRound uint64) {
	oc.gcRound.Set(float64(gcRound))
}
