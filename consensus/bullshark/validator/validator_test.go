package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/onflow/flow-narwhal/consensus/bullshark/committees"
	"github.com/onflow/flow-narwhal/consensus/bullshark/mocks"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestValidator(t *testing.T) {
	suite.Run(t, new(ValidatorSuite))
}

type ValidatorSuite struct {
	suite.Suite

	committee *committees.Static
	builder   *unittest.DAGBuilder
	verifier  *mocks.Verifier
	validator *Validator
}

func (s *ValidatorSuite) SetupTest() {
	var err error
	s.committee, err = committees.NewStaticCommittee(unittest.CommitteeFixture(4))
	s.Require().NoError(err)
	s.builder = unittest.NewDAGBuilder(s.committee.Epoch(), s.committee.Authorities())
	s.builder.AddFullRounds(1)
	s.verifier = mocks.NewVerifier(s.T())
	s.validator = New(s.committee, s.verifier)
}

func (s *ValidatorSuite) author(i int) flow.Identifier {
	return s.committee.Authorities()[i].NodeID
}

func (s *ValidatorSuite) TestHeader() {
	parents := s.builder.Round(1)
	parentIDs := flow.IdentifierList{parents[0].ID(), parents[1].ID(), parents[2].ID()}
	valid := s.builder.Certificate(2, s.author(0), parentIDs).Header
	s.Require().NoError(s.validator.ValidateHeader(&valid))

	s.Run("genesis", func() {
		genesis := s.builder.Round(0)[0].Header
		s.Assert().NoError(s.validator.ValidateHeader(&genesis))
	})
	s.Run("foreign epoch", func() {
		header := valid
		header.Epoch++
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateHeader(&header)))
	})
	s.Run("unknown author", func() {
		header := valid
		header.AuthorID = unittest.IdentifierFixture()
		err := s.validator.ValidateHeader(&header)
		s.Assert().True(model.IsInvalidCertificateError(err))
		s.Assert().True(model.IsUnknownAuthorityError(err))
	})
	s.Run("genesis with parents", func() {
		header := valid
		header.Round = 0
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateHeader(&header)))
	})
	s.Run("no parents", func() {
		header := valid
		header.ParentIDs = nil
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateHeader(&header)))
	})
	s.Run("duplicate parent", func() {
		header := valid
		header.ParentIDs = flow.IdentifierList{parentIDs[0], parentIDs[1], parentIDs[0]}
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateHeader(&header)))
	})
	s.Run("more parents than authorities", func() {
		header := valid
		header.ParentIDs = unittest.IdentifierListFixture(5)
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateHeader(&header)))
	})
	s.Run("duplicate payload", func() {
		header := valid
		digest := unittest.IdentifierFixture()
		header.PayloadDigests = flow.IdentifierList{digest, digest}
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateHeader(&header)))
	})
}

func (s *ValidatorSuite) TestVote() {
	header := s.builder.Round(1)[0].Header
	vote := unittest.VoteFixture(&header, s.author(1))

	s.Run("valid", func() {
		s.verifier.On("VerifyVote", s.committee.Authorities()[1], vote.SigData, header.ID()).Return(nil).Once()
		signer, err := s.validator.ValidateVote(vote)
		s.Require().NoError(err)
		s.Assert().Equal(s.author(1), signer.NodeID)
	})
	s.Run("unknown signer", func() {
		stranger := unittest.VoteFixture(&header, unittest.IdentifierFixture())
		_, err := s.validator.ValidateVote(stranger)
		s.Assert().True(model.IsInvalidVoteError(err))
	})
	s.Run("invalid signature", func() {
		s.verifier.On("VerifyVote", mock.Anything, vote.SigData, header.ID()).Return(model.ErrInvalidSignature).Once()
		_, err := s.validator.ValidateVote(vote)
		s.Assert().True(model.IsInvalidVoteError(err))
	})
	s.Run("verifier failure", func() {
		exception := errors.New("exception")
		s.verifier.On("VerifyVote", mock.Anything, vote.SigData, header.ID()).Return(exception).Once()
		_, err := s.validator.ValidateVote(vote)
		s.Assert().ErrorIs(err, exception)
		s.Assert().False(model.IsInvalidVoteError(err))
	})
}

func (s *ValidatorSuite) TestCertificate() {
	valid := s.builder.Certificate(2, s.author(0), certificateIDs(s.builder.Round(1)))
	valid.SigData = unittest.RandomBytes(64)

	s.Run("valid", func() {
		s.verifier.On("VerifyCertificate", s.committee.Authorities(), valid.SigData, valid.Header.ID()).Return(nil).Once()
		s.Assert().NoError(s.validator.ValidateCertificate(valid))
	})
	s.Run("genesis", func() {
		s.Assert().NoError(s.validator.ValidateCertificate(s.builder.Round(0)[0]))
	})
	s.Run("signed genesis", func() {
		genesis := *s.builder.Round(0)[0]
		genesis.SigData = unittest.RandomBytes(8)
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateCertificate(&genesis)))
	})
	s.Run("below quorum", func() {
		cert := *valid
		cert.SignerIDs = valid.SignerIDs[:2]
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateCertificate(&cert)))
	})
	s.Run("signers out of order", func() {
		cert := *valid
		cert.SignerIDs = flow.IdentifierList{valid.SignerIDs[1], valid.SignerIDs[0], valid.SignerIDs[2]}
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateCertificate(&cert)))
	})
	s.Run("duplicate signer", func() {
		cert := *valid
		cert.SignerIDs = flow.IdentifierList{valid.SignerIDs[0], valid.SignerIDs[1], valid.SignerIDs[1], valid.SignerIDs[2]}
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateCertificate(&cert)))
	})
	s.Run("invalid signature", func() {
		s.verifier.On("VerifyCertificate", mock.Anything, valid.SigData, valid.Header.ID()).Return(model.ErrInvalidFormat).Once()
		s.Assert().True(model.IsInvalidCertificateError(s.validator.ValidateCertificate(valid)))
	})
}

func certificateIDs(certs []*flow.Certificate) flow.IdentifierList {
	ids := make(flow.IdentifierList, 0, len(certs))
	for _, cert := range certs {
		ids = append(ids, cert.ID())
	}
	return ids
}
