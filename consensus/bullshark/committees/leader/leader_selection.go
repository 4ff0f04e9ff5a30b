package leader

import (
	"encoding/binary"
	"fmt"
	"math"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/onflow/flow-go/crypto/hash"
	"github.com/onflow/flow-go/crypto/random"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/encoding"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/model/flow/order"
)

// DefaultCacheSize is the number of leader rounds whose leader is kept in memory.
const DefaultCacheSize = 1024

// IsLeaderRound returns whether the round designates a leader. Leader rounds
// are the even rounds starting at 2; round 0 is genesis and odd rounds only
// carry support for the preceding leader.
func IsLeaderRound(round uint64) bool {
	return round >= 2 && round%2 == 0
}

// Selection computes the leader of each leader round. The leader of a round
// is drawn with probability proportional to its weight, using a ChaCha20 PRG
// seeded with the epoch's random source and customized with the round. Any
// round can therefore be evaluated on its own, no state is carried from one
// round to the next.
type Selection struct {
	// the ordered list of node IDs for all members of the committee
	memberIDs flow.IdentifierList

	// cumulative weights in the order of memberIDs; the i-th member is
	// selected if the random number falls into [weightSums[i-1], weightSums[i])
	weightSums []uint64

	// seed is the SHA3-256 hash of the epoch random source
	seed [hash.HashLenSHA3_256]byte

	leaders *lru.Cache[uint64, flow.Identifier]
}

// NewSelection creates the leader selection for an epoch. Authorities are
// sorted canonically first, so the result does not depend on the order in
// which the committee is given.
func NewSelection(randomSource []byte, authorities flow.IdentityList, cacheSize int) (*Selection, error) {
	if len(randomSource) == 0 {
		return nil, fmt.Errorf("random source must not be empty")
	}
	if len(authorities) == 0 {
		return nil, fmt.Errorf("authorities are empty")
	}
	if len(authorities) >= math.MaxUint16 {
		return nil, fmt.Errorf("number of possible leaders (%d) exceeds maximum (2^16-1)", len(authorities))
	}

	sorted := authorities.Sort(order.IdentityCanonical)

	// cumulative sum of weights
	// after cumulating the weights, the sum is the total weight;
	// total weight is used to specify the range of the random number.
	weightSums := make([]uint64, 0, len(sorted))
	var cumsum uint64
	for _, identity := range sorted {
		if cumsum+identity.Weight < cumsum {
			return nil, fmt.Errorf("total weight overflows")
		}
		cumsum += identity.Weight
		weightSums = append(weightSums, cumsum)
	}
	if cumsum == 0 {
		return nil, fmt.Errorf("total weight must be greater than 0")
	}

	leaders, err := lru.New[uint64, flow.Identifier](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("could not create leader cache: %w", err)
	}

	s := &Selection{
		memberIDs:  sorted.NodeIDs(),
		weightSums: weightSums,
		leaders:    leaders,
	}
	// hash the source of randomness to uniformize the entropy
	hash.ComputeSHA3_256(&s.seed, randomSource)
	return s, nil
}

// LeaderForRound returns the node ID of the leader for a leader round.
// Returns model.InvalidRoundError if the round is not a leader round.
func (s *Selection) LeaderForRound(round uint64) (flow.Identifier, error) {
	if !IsLeaderRound(round) {
		return flow.ZeroID, model.InvalidRoundError{Round: round}
	}
	if leaderID, ok := s.leaders.Get(round); ok {
		return leaderID, nil
	}

	rng, err := random.NewChacha20PRG(s.seed[:], customizer(round))
	if err != nil {
		return flow.ZeroID, fmt.Errorf("could not create ChaCha20 PRG for round %d: %w", round, err)
	}

	// pick a random number from 0 (inclusive) to total weight (exclusive). Or [0, cumsum)
	randomness := rng.UintN(s.weightSums[len(s.weightSums)-1])

	// binary search to find the leader index by the random number
	leaderID := s.memberIDs[binarySearchStrictlyBigger(randomness, s.weightSums)]
	s.leaders.Add(round, leaderID)
	return leaderID, nil
}

// customizer returns the 12-byte PRG customizer for a round.
func customizer(round uint64) []byte {
	c := make([]byte, 0, len(encoding.LeaderSelectionCustomizer)+8)
	c = append(c, encoding.LeaderSelectionCustomizer[:]...)
	return binary.BigEndian.AppendUint64(c, round)
}

// binarySearchStriclyBigger finds the index of the first item in the given array that is
// strictly bigger to the given value.
// There are a few assumptions on inputs:
// - `arr` must be non-empty
// - items in `arr` must be in non-decreasing order
// - `value` must be less than the last item in `arr`
func binarySearchStrictlyBigger(value uint64, arr []uint64) int {
	left := 0
	arrayLen := len(arr)
	right := arrayLen - 1
	mid := arrayLen >> 1
	for {
		if arr[mid] <= value {
			left = mid + 1
		} else {
			right = mid
		}

		if left >= right {
			return left
		}

		mid = int(left+right) >> 1
	}
}
