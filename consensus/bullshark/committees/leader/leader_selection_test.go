package leader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

var someSeed = []byte{0x6A, 0x23, 0x41, 0xB7, 0x80, 0xE1, 0x64, 0x59}

func identities(weights ...uint64) flow.IdentityList {
	list := make(flow.IdentityList, 0, len(weights))
	for i, weight := range weights {
		list = append(list, &flow.Identity{NodeID: flow.Identifier{byte(i + 1)}, Weight: weight})
	}
	return list
}

func leaders(t *testing.T, s *Selection, from, to uint64) []flow.Identifier {
	var result []flow.Identifier
	for round := from; round <= to; round += 2 {
		leaderID, err := s.LeaderForRound(round)
		require.NoError(t, err)
		result = append(result, leaderID)
	}
	return result
}

func TestIsLeaderRound(t *testing.T) {
	assert.False(t, IsLeaderRound(0), "genesis is not a leader round")
	assert.False(t, IsLeaderRound(1))
	assert.True(t, IsLeaderRound(2))
	assert.False(t, IsLeaderRound(3))
	assert.True(t, IsLeaderRound(1000))
}

// TestDeterministic checks that two independently constructed selections
// agree on every leader, regardless of the order of the committee.
func TestDeterministic(t *testing.T) {
	committee := identities(1, 2, 3, 4, 5)

	s1, err := NewSelection(someSeed, committee, DefaultCacheSize)
	require.NoError(t, err)
	shuffled := flow.IdentityList{committee[3], committee[0], committee[4], committee[2], committee[1]}
	s2, err := NewSelection(someSeed, shuffled, 1)
	require.NoError(t, err)

	assert.Equal(t, leaders(t, s1, 2, 400), leaders(t, s2, 2, 400))
	// cached results are the same as fresh computations
	assert.Equal(t, leaders(t, s1, 2, 400), leaders(t, s2, 2, 400))
}

// TestRandomSourceMatters checks that a different epoch random source leads to
// a different leader schedule.
func TestRandomSourceMatters(t *testing.T) {
	committee := identities(1, 1, 1, 1, 1, 1, 1)
	s1, err := NewSelection(someSeed, committee, DefaultCacheSize)
	require.NoError(t, err)
	s2, err := NewSelection([]byte{1, 2, 3}, committee, DefaultCacheSize)
	require.NoError(t, err)
	assert.NotEqual(t, leaders(t, s1, 2, 200), leaders(t, s2, 2, 200))
}

func TestNotLeaderRound(t *testing.T) {
	s, err := NewSelection(someSeed, identities(1, 1, 1, 1), DefaultCacheSize)
	require.NoError(t, err)

	for _, round := range []uint64{0, 1, 3, 101} {
		_, err := s.LeaderForRound(round)
		require.Error(t, err)
		assert.True(t, model.IsInvalidRoundError(err))
		assert.ErrorIs(t, err, model.ErrNotLeaderRound)
	}
}

// TestZeroWeight checks that an authority without weight is never selected.
func TestZeroWeight(t *testing.T) {
	committee := identities(5, 0, 5)
	s, err := NewSelection(someSeed, committee, DefaultCacheSize)
	require.NoError(t, err)
	for _, leaderID := range leaders(t, s, 2, 2000) {
		assert.NotEqual(t, committee[1].NodeID, leaderID)
	}
}

// TestSelectionProportionalToWeight checks that the frequency with which an
// authority is chosen follows its share of the total weight.
func TestSelectionProportionalToWeight(t *testing.T) {
	committee := identities(1, 3)
	s, err := NewSelection(someSeed, committee, DefaultCacheSize)
	require.NoError(t, err)

	count := 0
	selected := leaders(t, s, 2, 40000)
	for _, leaderID := range selected {
		if leaderID == committee[1].NodeID {
			count++
		}
	}
	share := float64(count) / float64(len(selected))
	assert.InDelta(t, 0.75, share, 0.03)
}

func TestInvalidCommittee(t *testing.T) {
	_, err := NewSelection(someSeed, flow.IdentityList{}, DefaultCacheSize)
	assert.Error(t, err)

	_, err = NewSelection(someSeed, identities(0, 0), DefaultCacheSize)
	assert.Error(t, err)

	_, err = NewSelection(nil, identities(1), DefaultCacheSize)
	assert.Error(t, err)

	_, err = NewSelection(someSeed, identities(^uint64(0), 1), DefaultCacheSize)
	assert.Error(t, err)
}

func TestBinarySearchStrictlyBigger(t *testing.T) {
	sums := []uint64{1, 1, 4, 8}
	assert.Equal(t, 0, binarySearchStrictlyBigger(0, sums))
	assert.Equal(t, 2, binarySearchStrictlyBigger(1, sums))
	assert.Equal(t, 2, binarySearchStrictlyBigger(3, sums))
	assert.Equal(t, 3, binarySearchStrictlyBigger(4, sums))
	assert.Equal(t, 3, binarySearchStrictlyBigger(7, sums))
	assert.Equal(t, 0, binarySearchStrictlyBigger(0, []uint64{5}))
}

func TestCustomizerLength(t *testing.T) {
	assert.Len(t, customizer(2), 12)
	assert.NotEqual(t, customizer(2), customizer(4))
}
