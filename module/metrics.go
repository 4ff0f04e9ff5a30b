package module

import (
	"time"
)

type CacheMetrics interface {
	// CacheEntries report the total number of cached items
	CacheEntries(resource string, entries uint)
	// CacheHit report the number of times the queried item is found in the cache
	CacheHit(resource string)
	// CacheNotFound records the number of times the queried item was not found in either cache or database.
	CacheNotFound(resource string)
	// CacheMiss report the number of times the queried item is not found in the cache, but found in the database.
	CacheMiss(resource string)
}

type StorageMetrics interface {
	// RetryOnConflict reports that a badger transaction was retried after a conflict.
	RetryOnConflict()
	// SkipDuplicate reports that an insert of an already stored value was skipped.
	SkipDuplicate()
}

type EngineMetrics interface {
	// MessageReceived reports that the engine received the message.
	MessageReceived(engine string, message string)
	// MessageHandled reports that the engine has finished processing the message.
	// Both invalid and valid messages should be reported.
	// A message must be reported as either handled or dropped, not both.
	MessageHandled(engine string, messages string)
	// InboundMessageDropped reports that the engine has dropped inbound message without processing it.
	// Inbound messages must be reported as either handled or dropped, not both.
	InboundMessageDropped(engine string, messages string)
}

// OrderingMetrics are reported by the DAG and the commit rule. All methods
// are safe to call from any goroutine.
type OrderingMetrics interface {
	// CertificateInserted reports a certificate added to the DAG at the given round.
	CertificateInserted(round uint64)

	// DAGSize reports the number of certificates and rounds held in memory.
	DAGSize(certificates uint, rounds uint)

	// SubDagCommitted reports a commit decision: the leader round, the
	// number of certificates ordered by it and the time between inserting
	// the leader certificate and committing it.
	SubDagCommitted(leaderRound uint64, certificates int, latency time.Duration)

	// LeaderSkipped reports a leader round decided to be skipped.
	LeaderSkipped(round uint64)

	// LeaderTimeout reports a leader round the DAG advanced past without a commit.
	LeaderTimeout(round uint64)

	// EquivocationDetected reports conflicting certificates of one authority.
	EquivocationDetected()

	// PendingCertificates reports the number of certificates waiting for parents.
	PendingCertificates(count uint)

	// GarbageCollected reports the lowest round retained after pruning.
	GarbageCollected(gcRound uint64)
}
