package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderingCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	oc := NewOrderingCollector(registry)

	oc.CertificateInserted(3)
	oc.CertificateInserted(4)
	oc.CertificateInserted(1)
	oc.SubDagCommitted(2, 9, 150*time.Millisecond)
	oc.LeaderSkipped(4)
	oc.EquivocationDetected()
	oc.PendingCertificates(5)
	oc.GarbageCollected(1)

	assert.Equal(t, float64(3), testutil.ToFloat64(oc.insertedCertificates))
	assert.Equal(t, float64(4), testutil.ToFloat64(oc.highestInsertedRound))
	assert.Equal(t, float64(2), testutil.ToFloat64(oc.committedRound))
	assert.Equal(t, float64(9), testutil.ToFloat64(oc.committedCertificates))
	assert.Equal(t, float64(1), testutil.ToFloat64(oc.skippedLeaders))
	assert.Equal(t, float64(1), testutil.ToFloat64(oc.equivocations))
	assert.Equal(t, float64(5), testutil.ToFloat64(oc.pendingCertificates))
	assert.Equal(t, float64(1), testutil.ToFloat64(oc.gcRound))

	count, err := testutil.GatherAndCount(registry)
	require.NoError(t, err)
	assert.Equal(t, 14, count)
}

func TestCacheCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	cc := NewCacheCollector(registry)

	cc.CacheHit(ResourceCertificate)
	cc.CacheHit(ResourceCertificate)
	cc.CacheMiss(ResourceCertificate)
	cc.CacheNotFound(ResourceCommittee)
	cc.CacheEntries(ResourceCertificate, 3)

	assert.Equal(t, float64(2), testutil.ToFloat64(cc.hits.WithLabelValues(ResourceCertificate)))
	assert.Equal(t, float64(1), testutil.ToFloat64(cc.misses.WithLabelValues(ResourceCertificate)))
	assert.Equal(t, float64(1), testutil.ToFloat64(cc.notfounds.WithLabelValues(ResourceCommittee)))
	assert.Equal(t, float64(3), testutil.ToFloat64(cc.entries.WithLabelValues(ResourceCertificate)))
}
