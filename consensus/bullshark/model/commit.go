package model

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// CommitState is the state of the commit rule of one consensus instance. It
// only moves forward. At genesis nothing is committed and LastCommittedRound
// is zero.
type CommitState struct {
	Epoch               uint64
	LastCommittedRound  uint64
	LastCommittedLeader flow.Identifier
	// NextSubDagIndex is the index the next committed sub-dag will carry.
	NextSubDagIndex uint64
}

// GenesisCommitState returns the commit state before the first commit of the
// given epoch.
func GenesisCommitState(epoch uint64) *CommitState {
	return &CommitState{Epoch: epoch}
}

// Copy returns a copy of the commit state.
func (s *CommitState) Copy() *CommitState {
	cpy := *s
	return &cpy
}

// HasCommitted returns whether any leader was committed yet.
func (s *CommitState) HasCommitted() bool {
	return s.LastCommittedLeader != flow.ZeroID
}

// CommittedSubDag is the output of one commit decision: the committed leader
// and its previously uncommitted causal history, in delivery order. The
// leader certificate is always last.
type CommittedSubDag struct {
	Index        uint64
	LeaderRound  uint64
	Leader       *flow.Certificate
	Certificates []*flow.Certificate
	// SkippedLeaderRounds lists the leader rounds between the previous commit
	// and this one whose leader was not committed.
	SkippedLeaderRounds []uint64
}

// CertificateIDs returns the digests of the committed certificates in order.
func (s *CommittedSubDag) CertificateIDs() flow.IdentifierList {
	ids := make(flow.IdentifierList, 0, len(s.Certificates))
	for _, cert := range s.Certificates {
		ids = append(ids, cert.ID())
	}
	return ids
}

// LeaderID returns the digest of the committed leader certificate.
func (s *CommittedSubDag) LeaderID() flow.Identifier {
	return s.Leader.ID()
}

// PayloadDigests returns the batch digests referenced by the committed
// certificates, in commit order.
func (s *CommittedSubDag) PayloadDigests() flow.IdentifierList {
	var digests flow.IdentifierList
	for _, cert := range s.Certificates {
		digests = append(digests, cert.Header.PayloadDigests...)
	}
	return digests
}
