package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestAddAndExtract(t *testing.T) {
	buffer := NewPendingCertificates(10)
	parents := unittest.IdentifierListFixture(2)
	originID := unittest.IdentifierFixture()

	child := unittest.CertificateFixture(unittest.WithRound(5), unittest.WithParents(parents...))
	require.True(t, buffer.Add(originID, child, parents))
	require.False(t, buffer.Add(originID, child, parents), "duplicate")
	assert.Equal(t, uint(1), buffer.Size())

	pending, ok := buffer.ByID(child.ID())
	require.True(t, ok)
	assert.Equal(t, originID, pending.OriginID)
	assert.Equal(t, parents, pending.Missing)

	extracted := buffer.ExtractChildren(parents[0])
	require.Len(t, extracted, 1)
	assert.Equal(t, child, extracted[0].Certificate)
	assert.Equal(t, uint(0), buffer.Size())
	assert.Empty(t, buffer.ExtractChildren(parents[1]), "extracted children are removed from every index")
}

func TestCapacity(t *testing.T) {
	buffer := NewPendingCertificates(2)
	for i := 0; i < 2; i++ {
		require.True(t, buffer.Add(flow.ZeroID, unittest.CertificateFixture(), unittest.IdentifierListFixture(1)))
	}
	assert.False(t, buffer.Add(flow.ZeroID, unittest.CertificateFixture(), unittest.IdentifierListFixture(1)))
	assert.Equal(t, uint(2), buffer.Size())
}

func TestPruneBelow(t *testing.T) {
	buffer := NewPendingCertificates(10)
	parentID := unittest.IdentifierFixture()
	for round := uint64(1); round <= 4; round++ {
		cert := unittest.CertificateFixture(unittest.WithRound(round), unittest.WithParents(parentID))
		require.True(t, buffer.Add(flow.ZeroID, cert, flow.IdentifierList{parentID}))
	}

	assert.Equal(t, 2, buffer.PruneBelow(3))
	assert.Equal(t, uint(2), buffer.Size())

	extracted := buffer.ExtractChildren(parentID)
	require.Len(t, extracted, 2)
	for _, pending := range extracted {
		assert.GreaterOrEqual(t, pending.Certificate.Round(), uint64(3))
	}
}
