package orderer

import (
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	"github.com/onflow/flow-narwhal/consensus/bullshark/committees"
	"github.com/onflow/flow-narwhal/consensus/bullshark/dag"
	"github.com/onflow/flow-narwhal/consensus/bullshark/mocks"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/consensus/bullshark/notifications"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module/metrics"
	"github.com/onflow/flow-narwhal/storage"
	mockstorage "github.com/onflow/flow-narwhal/storage/mock"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestOrderer(t *testing.T) {
	suite.Run(t, new(OrdererSuite))
}

type OrdererSuite struct {
	suite.Suite

	committee    *committees.Static
	builder      *unittest.DAGBuilder
	certificates *mockstorage.Certificates
	evidence     *mockstorage.Evidence
	persister    *mocks.Persister
	notifier     *mocks.Consumer
	config       Config
	orderer      *Orderer

	persisted []*model.CommittedSubDag
}

func (s *OrdererSuite) SetupTest() {
	var err error
	s.committee, err = committees.NewStaticCommittee(unittest.CommitteeFixture(4))
	s.Require().NoError(err)
	s.builder = unittest.NewDAGBuilder(s.committee.Epoch(), s.committee.Authorities())

	s.certificates = mockstorage.NewCertificates(s.T())
	s.certificates.On("Store", mock.Anything).Return(nil).Maybe()
	s.evidence = mockstorage.NewEvidence(s.T())

	s.persisted = nil
	s.persister = mocks.NewPersister(s.T())
	s.persister.On("PutCommit", mock.Anything, mock.Anything).Return(nil).Run(func(args mock.Arguments) {
		s.persisted = append(s.persisted, args.Get(0).(*model.CommittedSubDag))
	}).Maybe()

	s.notifier = mocks.NewConsumer(s.T())
	s.notifier.On("OnCertificateInserted", mock.Anything).Maybe()
	s.notifier.On("OnCommittedSubDag", mock.Anything).Maybe()
	s.notifier.On("OnPruned", mock.Anything).Maybe()

	s.config = DefaultConfig()
	s.createOrderer()
}

func (s *OrdererSuite) createOrderer() {
	var err error
	d := dag.New(unittest.Logger(), s.committee, metrics.NewNoopCollector(), 0)
	s.orderer, err = New(
		unittest.Logger(),
		s.config,
		s.committee,
		d,
		s.certificates,
		s.evidence,
		s.persister,
		s.notifier,
		metrics.NewNoopCollector(),
		model.GenesisCommitState(s.committee.Epoch()),
	)
	s.Require().NoError(err)
}

func (s *OrdererSuite) leader(round uint64) flow.Identifier {
	leaderID, err := s.committee.LeaderForRound(round)
	s.Require().NoError(err)
	return leaderID
}

// others returns all authorities except the given ones, in canonical order.
func (s *OrdererSuite) others(excluded ...flow.Identifier) flow.IdentifierList {
	var ids flow.IdentifierList
	for _, identity := range s.committee.Authorities() {
		if !flow.IdentifierList(excluded).Contains(identity.NodeID) {
			ids = append(ids, identity.NodeID)
		}
	}
	return ids
}

// process feeds the certificates in order and returns all resulting commits.
func (s *OrdererSuite) process(certs []*flow.Certificate) []*model.CommittedSubDag {
	var committed []*model.CommittedSubDag
	for _, cert := range certs {
		subDags, err := s.orderer.ProcessCertificate(cert)
		s.Require().NoError(err)
		committed = append(committed, subDags...)
	}
	return committed
}

// TestCommitFirstLeader commits the leader of round 2 once a quorum of round
// 3 certificates cites it and orders its history genesis first.
func (s *OrdererSuite) TestCommitFirstLeader() {
	leader2 := s.leader(2)
	round1 := s.builder.AddRound(s.others(s.others(leader2)[0]), nil)
	round2Authors := append(flow.IdentifierList{leader2}, s.others(leader2)[:2]...)
	s.builder.AddRound(round2Authors, nil)
	s.Require().Empty(s.process(s.builder.All()))

	round3 := s.builder.AddRound(round2Authors, nil)
	s.Require().Empty(s.process(round3[:2]), "two round 3 certificates do not reach quorum support")
	committed := s.process(round3[2:])
	s.Require().Len(committed, 1)

	subDag := committed[0]
	leaderCert := s.builder.At(2, leader2)
	s.Assert().Equal(uint64(0), subDag.Index)
	s.Assert().Equal(uint64(2), subDag.LeaderRound)
	s.Assert().Equal(leaderCert.ID(), subDag.LeaderID())
	s.Assert().Empty(subDag.SkippedLeaderRounds)

	expected := append(append(s.builder.Round(0), round1...), leaderCert)
	unittest.RequireCertificateIDs(s.T(), expected, subDag.Certificates)

	state := s.orderer.CommitState()
	s.Assert().Equal(uint64(2), state.LastCommittedRound)
	s.Assert().Equal(leaderCert.ID(), state.LastCommittedLeader)
	s.Assert().Equal(uint64(1), state.NextSubDagIndex)
	s.Require().Len(s.persisted, 1)
	s.Assert().Equal(subDag, s.persisted[0])
	s.notifier.AssertCalled(s.T(), "OnCommittedSubDag", subDag)

	for _, cert := range expected {
		s.Assert().True(s.orderer.DAG().IsCommitted(cert.ID()))
	}
	for _, cert := range s.builder.From(2) {
		if cert.ID() != leaderCert.ID() {
			s.Assert().False(s.orderer.DAG().IsCommitted(cert.ID()))
		}
	}
}

// TestSupportBelowQuorum verifies that a leader cited by less than quorum
// weight in the next round is not committed directly.
func (s *OrdererSuite) TestSupportBelowQuorum() {
	s.builder.AddFullRounds(2)
	leader2 := s.leader(2)
	withoutLeader := s.others(leader2)

	supporters := s.others(withoutLeader[0], withoutLeader[1])
	for _, author := range supporters {
		s.builder.AddCertificate(s.builder.Certificate(3, author, certificateIDs(s.builder.Round(2))))
	}
	for _, author := range withoutLeader[:2] {
		s.builder.AddCertificate(s.builder.Certificate(3, author, authorCertificateIDs(s.builder, 2, withoutLeader)))
	}

	committed := s.process(s.builder.All())
	s.Assert().Empty(committed)
	s.Assert().False(s.orderer.CommitState().HasCommitted())
}

// TestSilentLeader verifies that a missing leader does not stall ordering:
// the next leader is committed and the silent round reported as skipped.
func (s *OrdererSuite) TestSilentLeader() {
	leader2 := s.leader(2)
	s.notifier.On("OnLeaderSkipped", uint64(2), leader2).Once()

	s.builder.AddFullRounds(1)
	s.builder.AddRound(s.others(leader2), nil)
	s.builder.AddFullRounds(3)

	committed := s.process(s.builder.All())
	s.Require().Len(committed, 1)

	subDag := committed[0]
	s.Assert().Equal(uint64(0), subDag.Index)
	s.Assert().Equal(uint64(4), subDag.LeaderRound)
	s.Assert().Equal([]uint64{2}, subDag.SkippedLeaderRounds)
	s.Assert().Len(subDag.Certificates, 4+4+3+4+1)
	s.Assert().Equal(s.builder.At(4, s.leader(4)).ID(), subDag.LeaderID())
	s.Assert().Equal(uint64(4), s.orderer.CommitState().LastCommittedRound)
}

// TestIndirectCommit verifies that a leader without direct support is still
// committed, before the next leader, when that leader has a path to it.
func (s *OrdererSuite) TestIndirectCommit() {
	s.builder.AddFullRounds(2)
	leader2 := s.leader(2)
	withoutLeader := s.others(leader2)
	for _, author := range s.others(withoutLeader[0], withoutLeader[1]) {
		s.builder.AddCertificate(s.builder.Certificate(3, author, certificateIDs(s.builder.Round(2))))
	}
	for _, author := range withoutLeader[:2] {
		s.builder.AddCertificate(s.builder.Certificate(3, author, authorCertificateIDs(s.builder, 2, withoutLeader)))
	}
	s.builder.AddFullRounds(2)

	committed := s.process(s.builder.All())
	s.Require().Len(committed, 2)

	first, second := committed[0], committed[1]
	s.Assert().Equal(uint64(0), first.Index)
	s.Assert().Equal(uint64(2), first.LeaderRound)
	s.Assert().Equal(s.builder.At(2, leader2).ID(), first.LeaderID())
	s.Assert().Empty(first.SkippedLeaderRounds)
	s.Assert().Len(first.Certificates, 4+4+1)

	s.Assert().Equal(uint64(1), second.Index)
	s.Assert().Equal(uint64(4), second.LeaderRound)
	s.Assert().Empty(second.SkippedLeaderRounds)
	s.Assert().Len(second.Certificates, 3+4+1)

	for _, cert := range second.Certificates {
		s.Assert().NotContains(first.CertificateIDs(), cert.ID())
	}
}

// TestGarbageCollection verifies that rounds below the GC depth are pruned
// after commits and that certificates for pruned rounds are rejected.
func (s *OrdererSuite) TestGarbageCollection() {
	s.config = Config{GCDepth: 4, LeaderLookahead: 2}
	s.createOrderer()

	s.builder.AddFullRounds(11)
	committed := s.process(s.builder.All())
	s.Require().Len(committed, 5)
	for i, subDag := range committed {
		s.Assert().Equal(uint64(i), subDag.Index)
		s.Assert().Equal(uint64(2*(i+1)), subDag.LeaderRound)
	}

	s.Assert().Equal(uint64(10), s.orderer.CommitState().LastCommittedRound)
	s.Assert().Equal(uint64(6), s.orderer.GCRound())
	s.Assert().Equal(uint64(6), s.orderer.DAG().LowestRound())
	s.notifier.AssertCalled(s.T(), "OnPruned", uint64(6))

	stale := s.builder.Certificate(5, s.committee.Authorities()[0].NodeID, nil)
	_, err := s.orderer.ProcessCertificate(stale)
	s.Assert().True(model.IsStaleCertificateError(err))
}

// TestLeaderTimeout verifies that an undecided leader round is reported once
// the DAG has advanced past the lookahead.
func (s *OrdererSuite) TestLeaderTimeout() {
	s.config = Config{GCDepth: 10, LeaderLookahead: 2}
	s.createOrderer()

	leader2 := s.leader(2)
	s.notifier.On("OnLeaderTimeout", uint64(2), leader2).Once()
	s.notifier.On("OnLeaderSkipped", uint64(2), leader2).Once()

	s.builder.AddFullRounds(1)
	s.builder.AddRound(s.others(leader2), nil)
	s.builder.AddFullRounds(3)

	committed := s.process(s.builder.All())
	s.Require().Len(committed, 1)
	s.notifier.AssertNumberOfCalls(s.T(), "OnLeaderTimeout", 1)
}

// TestEquivocation verifies that a conflicting certificate is rejected,
// recorded as evidence and reported.
func (s *OrdererSuite) TestEquivocation() {
	s.builder.AddFullRounds(1)
	s.process(s.builder.All())

	first := s.builder.Round(1)[0]
	conflicting := s.builder.Equivocate(first)
	s.evidence.On("Store", &storage.EquivocationEvidence{First: first, Conflicting: conflicting}).Return(nil).Once()
	s.notifier.On("OnEquivocationDetected", first, conflicting).Once()

	_, err := s.orderer.ProcessCertificate(conflicting)
	s.Require().True(model.IsEquivocationError(err))

	retained, ok := s.orderer.DAG().CertificateAt(1, first.AuthorID())
	s.Require().True(ok)
	s.Assert().Equal(first.ID(), retained.ID())
}

// TestMissingParents verifies that a certificate with unknown parents is
// rejected without being stored.
func (s *OrdererSuite) TestMissingParents() {
	s.builder.AddFullRounds(2)
	s.process(s.builder.Round(0))

	_, err := s.orderer.ProcessCertificate(s.builder.Round(2)[0])
	missing, ok := model.AsMissingParentsError(err)
	s.Require().True(ok)
	s.Assert().ElementsMatch(certificateIDs(s.builder.Round(1)), missing.Missing)
	s.certificates.AssertNotCalled(s.T(), "Store", s.builder.Round(2)[0])
}

// TestDuplicate verifies that re-delivering a certificate is a no-op.
func (s *OrdererSuite) TestDuplicate() {
	genesis := s.builder.Round(0)
	s.process(genesis)
	s.process(genesis)
	s.certificates.AssertNumberOfCalls(s.T(), "Store", len(genesis))
}

// TestStorageFailure verifies that a failure to persist a commit surfaces as
// an exception and leaves the commit state unchanged.
func (s *OrdererSuite) TestStorageFailure() {
	failing := mocks.NewPersister(s.T())
	failing.On("PutCommit", mock.Anything, mock.Anything).Return(storage.ErrDataMismatch).Once()
	s.persister = failing
	s.createOrderer()

	s.builder.AddFullRounds(2)
	s.builder.AddRound(s.others(s.committee.Authorities()[0].NodeID), nil)
	certs := s.builder.All()
	for _, cert := range certs[:len(certs)-1] {
		_, err := s.orderer.ProcessCertificate(cert)
		s.Require().NoError(err)
	}
	_, err := s.orderer.ProcessCertificate(certs[len(certs)-1])
	s.Require().ErrorIs(err, storage.ErrDataMismatch)
	s.Assert().False(model.IsInvalidCertificateError(err))
	s.Assert().False(s.orderer.CommitState().HasCommitted())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	committee, err := committees.NewStaticCommittee(unittest.CommitteeFixture(4))
	require.NoError(t, err)
	d := dag.New(unittest.Logger(), committee, metrics.NewNoopCollector(), 0)

	_, err = New(unittest.Logger(), Config{GCDepth: 3, LeaderLookahead: 2}, committee, d, nil, nil, nil,
		notifications.NewNoopConsumer(), metrics.NewNoopCollector(), model.GenesisCommitState(committee.Epoch()))
	require.True(t, model.IsConfigurationError(err))

	_, err = New(unittest.Logger(), DefaultConfig(), committee, d, nil, nil, nil,
		notifications.NewNoopConsumer(), metrics.NewNoopCollector(), model.GenesisCommitState(committee.Epoch()+1))
	require.True(t, model.IsConfigurationError(err))
}

// TestArrivalOrderIndependence checks that the committed sequence only
// depends on the DAG and not on the order in which certificates arrive, that
// no certificate is committed twice and that parents are always committed
// before their children.
func TestArrivalOrderIndependence(t *testing.T) {
	committee, err := committees.NewStaticCommittee(unittest.CommitteeFixture(4))
	require.NoError(t, err)

	rapid.Check(t, func(t *rapid.T) {
		builder := unittest.NewDAGBuilder(committee.Epoch(), committee.Authorities())
		rounds := rapid.IntRange(3, 12).Draw(t, "rounds")
		for r := 0; r < rounds; r++ {
			authors := committee.Authorities().NodeIDs()
			dropped := rapid.IntRange(0, len(authors)).Draw(t, "dropped")
			if dropped < len(authors) {
				authors = append(authors[:dropped:dropped], authors[dropped+1:]...)
			}
			builder.AddRound(authors, nil)
		}
		certs := builder.All()

		reference := commitAll(t, committee, certs)
		shuffled := rapid.Permutation(certs).Draw(t, "arrival")
		actual := commitAll(t, committee, shuffled)
		require.Equal(t, certificateIDs(reference), certificateIDs(actual))

		position := make(map[flow.Identifier]int, len(actual))
		for i, cert := range actual {
			_, duplicate := position[cert.ID()]
			require.False(t, duplicate, "certificate %x committed twice", cert.ID())
			position[cert.ID()] = i
		}
		for i, cert := range actual {
			for _, parentID := range cert.ParentIDs() {
				j, ok := position[parentID]
				require.True(t, ok, "parent %x of committed certificate is not committed", parentID)
				require.Less(t, j, i)
			}
		}
	})
}

// commitAll delivers the certificates, holding back those with missing
// parents until they can be inserted, and returns all committed certificates
// in commit order.
func commitAll(t *rapid.T, committee *committees.Static, certs []*flow.Certificate) []*flow.Certificate {
	certificates := &mockstorage.Certificates{}
	certificates.On("Store", mock.Anything).Return(nil)
	persister := &mocks.Persister{}
	persister.On("PutCommit", mock.Anything, mock.Anything).Return(nil)

	o, err := New(
		unittest.Logger(),
		DefaultConfig(),
		committee,
		dag.New(unittest.Logger(), committee, metrics.NewNoopCollector(), 0),
		certificates,
		&mockstorage.Evidence{},
		persister,
		notifications.NewNoopConsumer(),
		metrics.NewNoopCollector(),
		model.GenesisCommitState(committee.Epoch()),
	)
	require.NoError(t, err)

	var committed []*flow.Certificate
	pending := certs
	for len(pending) > 0 {
		var next []*flow.Certificate
		for _, cert := range pending {
			subDags, err := o.ProcessCertificate(cert)
			if model.IsMissingParentsError(err) {
				next = append(next, cert)
				continue
			}
			require.NoError(t, err)
			for _, subDag := range subDags {
				committed = append(committed, subDag.Certificates...)
			}
		}
		require.Less(t, len(next), len(pending), "no progress delivering certificates")
		pending = next
	}
	return committed
}

func certificateIDs(certs []*flow.Certificate) flow.IdentifierList {
	ids := make(flow.IdentifierList, 0, len(certs))
	for _, cert := range certs {
		ids = append(ids, cert.ID())
	}
	return ids
}

func authorCertificateIDs(builder *unittest.DAGBuilder, round uint64, authors flow.IdentifierList) flow.IdentifierList {
	ids := make(flow.IdentifierList, 0, len(authors))
	for _, author := range authors {
		ids = append(ids, builder.At(round, author).ID())
	}
	return ids
}
