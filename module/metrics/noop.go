package metrics

import (
	"time"

	"github.com/onflow/flow-narwhal/module"
)

type NoopCollector struct{}

var _ module.CacheMetrics = (*NoopCollector)(nil)
var _ module.StorageMetrics = (*NoopCollector)(nil)
var _ module.EngineMetrics = (*NoopCollector)(nil)
var _ module.OrderingMetrics = (*NoopCollector)(nil)

func NewNoopCollector() *NoopCollector {
	nc := &NoopCollector{}
	return nc
}

func (nc *NoopCollector) CacheEntries(resource string, entries uint)          {}
func (nc *NoopCollector) CacheHit(resource string)                            {}
func (nc *NoopCollector) CacheNotFound(resource string)                       {}
func (nc *NoopCollector) CacheMiss(resource string)                           {}
func (nc *NoopCollector) RetryOnConflict()                                    {}
func (nc *NoopCollector) SkipDuplicate()                                      {}
func (nc *NoopCollector) MessageReceived(engine string, message string)       {}
func (nc *NoopCollector) MessageHandled(engine string, message string)        {}
func (nc *NoopCollector) InboundMessageDropped(engine string, message string) {}
func (nc *NoopCollector) CertificateInserted(round uint64)                    {}
func (nc *NoopCollector) DAGSize(certificates uint, rounds uint)              {}
func (nc *NoopCollector) SubDagCommitted(uint64, int, time.Duration)          {}
func (nc *NoopCollector) LeaderSkipped(round uint64)                          {}
func (nc *NoopCollector) LeaderTimeout(round uint64)                          {}
func (nc *NoopCollector) EquivocationDetected()                               {}
func (nc *NoopCollector) PendingCertificates(count uint)                      {}
func (nc *NoopCollector) GarbageCollected(gcRound uint64)                     {}
