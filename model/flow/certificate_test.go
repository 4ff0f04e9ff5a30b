package flow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/onflow/flow-narwhal/model/flow"
)

func TestHeaderID(t *testing.T) {
	header := flow.Header{
		Epoch:          1,
		Round:          4,
		AuthorID:       flow.Identifier{1},
		PayloadDigests: flow.IdentifierList{{2}},
		ParentIDs:      flow.IdentifierList{{3}, {4}},
	}

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, header.ID(), header.ID())
	})

	t.Run("covers every field", func(t *testing.T) {
		other := header
		other.Round = 5
		assert.NotEqual(t, header.ID(), other.ID())

		other = header
		other.ParentIDs = flow.IdentifierList{{4}, {3}}
		assert.NotEqual(t, header.ID(), other.ID())

		other = header
		other.PayloadDigests = nil
		assert.NotEqual(t, header.ID(), other.ID())
	})

	t.Run("nil and empty lists are the same", func(t *testing.T) {
		a := flow.Header{Round: 0, AuthorID: flow.Identifier{1}}
		b := flow.Header{Round: 0, AuthorID: flow.Identifier{1}, ParentIDs: flow.IdentifierList{}, PayloadDigests: flow.IdentifierList{}}
		assert.Equal(t, a.ID(), b.ID())
	})
}

func TestCertificateID(t *testing.T) {
	header := flow.Header{Round: 2, AuthorID: flow.Identifier{1}, ParentIDs: flow.IdentifierList{{5}}}

	a := &flow.Certificate{Header: header, SignerIDs: flow.IdentifierList{{1}, {2}, {3}}, SigData: []byte{1}}
	b := &flow.Certificate{Header: header, SignerIDs: flow.IdentifierList{{2}, {3}, {4}}, SigData: []byte{2}}
	assert.Equal(t, a.ID(), b.ID(), "signatures must not change the digest")

	c := &flow.Certificate{Header: flow.Header{Round: 2, AuthorID: flow.Identifier{1}, ParentIDs: flow.IdentifierList{{6}}}}
	assert.NotEqual(t, a.ID(), c.ID(), "different headers of the same author and round are different vertices")
}

func TestGenesisCertificates(t *testing.T) {
	authorities := flow.IdentityList{
		{NodeID: flow.Identifier{1}, Weight: 1},
		{NodeID: flow.Identifier{2}, Weight: 1},
	}
	genesis := flow.GenesisCertificates(3, authorities)
	assert.Len(t, genesis, 2)
	for i, cert := range genesis {
		assert.Equal(t, uint64(0), cert.Round())
		assert.Equal(t, uint64(3), cert.Epoch())
		assert.Equal(t, authorities[i].NodeID, cert.AuthorID())
		assert.Empty(t, cert.ParentIDs())
		assert.True(t, cert.Header.IsGenesis())
	}
	assert.Equal(t, genesis[0].ID(), flow.GenesisCertificates(3, authorities)[0].ID())
	assert.NotEqual(t, genesis[0].ID(), flow.GenesisCertificates(4, authorities)[0].ID())
}
