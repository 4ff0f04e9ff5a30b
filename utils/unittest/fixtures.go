package unittest

import (
	crand "crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/model/flow"
)

func IdentifierFixture() flow.Identifier {
	var id flow.Identifier
	_, _ = crand.Read(id[:])
	return id
}

func IdentifierListFixture(n int) flow.IdentifierList {
	list := make(flow.IdentifierList, n)
	for i := 0; i < n; i++ {
		list[i] = IdentifierFixture()
	}
	return list
}

func RandomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = crand.Read(b)
	return b
}

// SeedFixture returns a random source for leader election.
func SeedFixture(n int) []byte {
	return RandomBytes(n)
}

func WithWeight(weight uint64) func(*flow.Identity) {
	return func(identity *flow.Identity) {
		identity.Weight = weight
	}
}

// WithNodeID adds a node ID with the given first byte to an identity.
func WithNodeID(b byte) func(*flow.Identity) {
	return func(identity *flow.Identity) {
		identity.NodeID = flow.Identifier{b}
	}
}

// IdentityFixture returns an authority with weight 1000 and a random key.
func IdentityFixture(opts ...func(*flow.Identity)) *flow.Identity {
	identity := flow.Identity{
		NodeID:    IdentifierFixture(),
		Weight:    1000,
		PublicKey: RandomBytes(48),
	}
	for _, apply := range opts {
		apply(&identity)
	}
	return &identity
}

// IdentityListFixture returns a list of n authorities.
func IdentityListFixture(n int, opts ...func(*flow.Identity)) flow.IdentityList {
	identities := make(flow.IdentityList, 0, n)
	for i := 0; i < n; i++ {
		identities = append(identities, IdentityFixture(opts...))
	}
	return identities
}

// CommitteeFixture returns the committee of epoch 1 with n equally weighted
// authorities.
func CommitteeFixture(n int, opts ...func(*flow.EpochCommittee)) *flow.EpochCommittee {
	committee := &flow.EpochCommittee{
		Epoch:        1,
		Authorities:  IdentityListFixture(n),
		RandomSource: SeedFixture(32),
	}
	for _, apply := range opts {
		apply(committee)
	}
	return committee
}

func WithEpoch(epoch uint64) func(*flow.EpochCommittee) {
	return func(committee *flow.EpochCommittee) {
		committee.Epoch = epoch
	}
}

func WithAuthorities(authorities flow.IdentityList) func(*flow.EpochCommittee) {
	return func(committee *flow.EpochCommittee) {
		committee.Authorities = authorities
	}
}

// HeaderFixture returns a header with random author, payload and parents.
func HeaderFixture(opts ...func(*flow.Header)) *flow.Header {
	header := &flow.Header{
		Epoch:          1,
		Round:          1,
		AuthorID:       IdentifierFixture(),
		PayloadDigests: IdentifierListFixture(2),
		ParentIDs:      IdentifierListFixture(3),
	}
	for _, apply := range opts {
		apply(header)
	}
	return header
}

func WithRound(round uint64) func(*flow.Header) {
	return func(header *flow.Header) {
		header.Round = round
	}
}

func WithAuthor(authorID flow.Identifier) func(*flow.Header) {
	return func(header *flow.Header) {
		header.AuthorID = authorID
	}
}

func WithParents(parentIDs ...flow.Identifier) func(*flow.Header) {
	return func(header *flow.Header) {
		header.ParentIDs = parentIDs
	}
}

func WithPayload(digests ...flow.Identifier) func(*flow.Header) {
	return func(header *flow.Header) {
		header.PayloadDigests = digests
	}
}

// CertificateFixture returns a certificate over a random header.
func CertificateFixture(opts ...func(*flow.Header)) *flow.Certificate {
	return &flow.Certificate{
		Header:    *HeaderFixture(opts...),
		SignerIDs: IdentifierListFixture(3),
		SigData:   RandomBytes(96),
	}
}

// VoteFixture returns a vote of the signer for the header.
func VoteFixture(header *flow.Header, signerID flow.Identifier) *flow.Vote {
	return &flow.Vote{
		HeaderID: header.ID(),
		Round:    header.Round,
		SignerID: signerID,
		SigData:  RandomBytes(48),
	}
}

// RequireCertificateIDs requires that the certificates have exactly the
// expected digests in the given order.
func RequireCertificateIDs(t testing.TB, expected []*flow.Certificate, actual []*flow.Certificate) {
	require.Len(t, actual, len(expected))
	for i := range expected {
		require.Equal(t, expected[i].ID(), actual[i].ID(), "certificate at position %d differs", i)
	}
}
