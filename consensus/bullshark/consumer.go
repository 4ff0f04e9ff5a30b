package bullshark

import (
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

// CommitConsumer consumes the ordered output of the commit rule. Sub-dags are
// delivered in index order; the stream is never reordered or retracted.
// Implementations must:
//   - be concurrency safe
//   - be non-blocking
//   - handle repetition of the same events (with some processing overhead).
type CommitConsumer interface {
	// OnCommittedSubDag notifications are produced by the Orderer after a
	// leader was committed and the sub-dag was persisted.
	// Prerequisites:
	// Implementation must be concurrency safe; Non-blocking;
	// and must handle repetition of the same events (with some processing overhead).
	OnCommittedSubDag(subDag *model.CommittedSubDag)
}

// EquivocationConsumer consumes evidence of authorities producing conflicting
// certificates for the same round.
type EquivocationConsumer interface {
	// OnEquivocationDetected notifications are produced by the Orderer when a
	// certificate conflicts with one already in the DAG. The first certificate
	// stays in the DAG, the conflicting one is discarded.
	// Prerequisites:
	// Implementation must be concurrency safe; Non-blocking;
	// and must handle repetition of the same events (with some processing overhead).
	OnEquivocationDetected(first *flow.Certificate, conflicting *flow.Certificate)
}

// Consumer consumes all outbound events of the ordering core.
type Consumer interface {
	CommitConsumer
	EquivocationConsumer

	// OnCertificateInserted notifications are produced by the Orderer after a
	// certificate was added to the DAG.
	OnCertificateInserted(cert *flow.Certificate)

	// OnInvalidCertificateDetected notifications are produced when a
	// certificate violates the structural rules of the DAG.
	OnInvalidCertificateDetected(err model.InvalidCertificateError)

	// OnLeaderSkipped notifications are produced when a later commit decided
	// that the leader of the given round is not part of the order.
	OnLeaderSkipped(round uint64, leaderID flow.Identifier)

	// OnLeaderTimeout notifications are produced once per leader round when
	// the DAG has advanced past the lookahead without the leader being
	// committed. The slot is only decided by a later commit.
	OnLeaderTimeout(round uint64, leaderID flow.Identifier)

	// OnPruned notifications are produced after the DAG dropped all rounds
	// strictly below gcRound.
	OnPruned(gcRound uint64)
}
