package voteaggregator

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/committees"
	"github.com/onflow/flow-narwhal/consensus/bullshark/mocks"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/consensus/bullshark/signature"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestVoteAggregator(t *testing.T) {
	suite.Run(t, new(VoteAggregatorSuite))
}

type VoteAggregatorSuite struct {
	suite.Suite

	committee  *committees.Static
	validator  *mocks.Validator
	aggregator *VoteAggregator
	header     *flow.Header

	lock    sync.Mutex
	created []*flow.Certificate
}

func (s *VoteAggregatorSuite) SetupTest() {
	var err error
	s.committee, err = committees.NewStaticCommittee(unittest.CommitteeFixture(4))
	s.Require().NoError(err)

	s.validator = mocks.NewValidator(s.T())
	s.validator.On("ValidateHeader", mock.Anything).Return(nil).Maybe()
	s.validator.On("ValidateVote", mock.Anything).Return(
		func(vote *flow.Vote) (*flow.Identity, error) {
			return s.committee.Authority(vote.SignerID)
		},
	).Maybe()

	s.created = nil
	s.aggregator = New(unittest.Logger(), s.committee, s.validator,
		func() bullshark.SignatureAggregator { return signature.NewAggregator() },
		func(cert *flow.Certificate) {
			s.lock.Lock()
			defer s.lock.Unlock()
			s.created = append(s.created, cert)
		},
	)
	s.header = unittest.HeaderFixture(unittest.WithRound(3), unittest.WithAuthor(s.signer(0)))
}

func (s *VoteAggregatorSuite) signer(i int) flow.Identifier {
	return s.committee.Authorities()[i].NodeID
}

func (s *VoteAggregatorSuite) certificates() []*flow.Certificate {
	s.lock.Lock()
	defer s.lock.Unlock()
	return append([]*flow.Certificate(nil), s.created...)
}

// TestCertificateAtQuorum verifies that the certificate is created exactly
// once, when the third of four equally weighted votes arrives.
func (s *VoteAggregatorSuite) TestCertificateAtQuorum() {
	s.Require().NoError(s.aggregator.AddHeader(s.header))

	for i := 0; i < 2; i++ {
		s.Require().NoError(s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(i))))
	}
	s.Require().Empty(s.certificates())

	s.Require().NoError(s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(2))))
	s.Require().NoError(s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(3))))

	certs := s.certificates()
	s.Require().Len(certs, 1)
	cert := certs[0]
	s.Assert().Equal(*s.header, cert.Header)
	s.Assert().Equal(flow.IdentifierList{s.signer(0), s.signer(1), s.signer(2)}, cert.SignerIDs)

	collector, ok := s.aggregator.Collector(s.header.ID())
	s.Require().True(ok)
	built, ok := collector.Certificate()
	s.Require().True(ok)
	s.Assert().Equal(cert, built)
}

// TestDuplicateVote verifies that a second vote by the same signer is
// rejected and does not count twice.
func (s *VoteAggregatorSuite) TestDuplicateVote() {
	s.Require().NoError(s.aggregator.AddHeader(s.header))
	s.Require().NoError(s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(1))))
	for i := 0; i < 2; i++ {
		err := s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(1)))
		s.Require().True(model.IsDuplicateVoteError(err))
	}
	s.Require().NoError(s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(2))))

	collector, _ := s.aggregator.Collector(s.header.ID())
	s.Assert().Equal(uint64(2000), collector.Weight())
	s.Assert().Empty(s.certificates())
}

// TestInvalidVote verifies that votes failing validation are rejected.
func (s *VoteAggregatorSuite) TestInvalidVote() {
	validator := mocks.NewValidator(s.T())
	validator.On("ValidateHeader", mock.Anything).Return(nil)
	stranger := unittest.VoteFixture(s.header, unittest.IdentifierFixture())
	validator.On("ValidateVote", stranger).Return(nil, model.NewInvalidVoteErrorf(stranger, "unknown signer")).Once()
	aggregator := New(unittest.Logger(), s.committee, validator,
		func() bullshark.SignatureAggregator { return signature.NewAggregator() },
		func(*flow.Certificate) { s.T().Fatal("unexpected certificate") },
	)

	s.Require().NoError(aggregator.AddHeader(s.header))
	err := aggregator.AddVote(stranger)
	s.Assert().True(model.IsInvalidVoteError(err))
}

// TestDoubleVote verifies that voting for two headers of the same author and
// round is detected.
func (s *VoteAggregatorSuite) TestDoubleVote() {
	conflicting := *s.header
	conflicting.PayloadDigests = unittest.IdentifierListFixture(1)
	s.Require().NoError(s.aggregator.AddHeader(s.header))
	s.Require().NoError(s.aggregator.AddHeader(&conflicting))

	first := unittest.VoteFixture(s.header, s.signer(1))
	s.Require().NoError(s.aggregator.AddVote(first))
	second := unittest.VoteFixture(&conflicting, s.signer(1))
	err := s.aggregator.AddVote(second)
	doubleVote, ok := model.AsDoubleVoteError(err)
	s.Require().True(ok)
	s.Assert().Equal(first, doubleVote.FirstVote)
	s.Assert().Equal(second, doubleVote.ConflictingVote)

	collector, _ := s.aggregator.Collector(conflicting.ID())
	s.Assert().Zero(collector.Weight())
}

// TestVotesBeforeHeader verifies that votes for an unknown header are cached
// and counted once the header arrives.
func (s *VoteAggregatorSuite) TestVotesBeforeHeader() {
	for i := 0; i < 3; i++ {
		s.Require().NoError(s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(i))))
	}
	s.Require().Empty(s.certificates())

	s.Require().NoError(s.aggregator.AddHeader(s.header))
	s.Require().Len(s.certificates(), 1)
}

// TestPruning verifies that rounds below the pruning round are dropped and
// no longer accepted.
func (s *VoteAggregatorSuite) TestPruning() {
	s.Require().NoError(s.aggregator.AddHeader(s.header))
	s.Require().NoError(s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(1))))

	s.aggregator.PruneBelow(s.header.Round + 1)
	s.Assert().Equal(s.header.Round+1, s.aggregator.LowestRound())
	_, ok := s.aggregator.Collector(s.header.ID())
	s.Assert().False(ok)

	s.Require().NoError(s.aggregator.AddHeader(s.header))
	_, ok = s.aggregator.Collector(s.header.ID())
	s.Assert().False(ok, "headers below the lowest round are ignored")

	s.aggregator.PruneBelow(1)
	s.Assert().Equal(s.header.Round+1, s.aggregator.LowestRound())
}

// TestConcurrentVotes verifies that concurrent votes build exactly one
// certificate.
func (s *VoteAggregatorSuite) TestConcurrentVotes() {
	s.Require().NoError(s.aggregator.AddHeader(s.header))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			require.NoError(s.T(), s.aggregator.AddVote(unittest.VoteFixture(s.header, s.signer(i))))
		}(i)
	}
	unittest.RequireReturnsBefore(s.T(), wg.Wait, time.Second, "votes were not processed")
	s.Assert().Len(s.certificates(), 1)
}

func TestVoteCollectorRejectsForeignVote(t *testing.T) {
	header := unittest.HeaderFixture()
	collector := NewVoteCollector(header, 1, signature.NewAggregator(), func(*flow.Certificate) {})

	other := unittest.HeaderFixture()
	signer := unittest.IdentityFixture()
	_, err := collector.AddVote(unittest.VoteFixture(other, signer.NodeID), signer)
	require.True(t, model.IsInvalidVoteError(err))

	created, err := collector.AddVote(unittest.VoteFixture(header, signer.NodeID), signer)
	require.NoError(t, err)
	require.True(t, created)
}
