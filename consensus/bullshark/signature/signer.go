package signature

import (
	"fmt"

	"github.com/onflow/flow-go/crypto"
	"github.com/onflow/flow-go/crypto/hash"

	"github.com/onflow/flow-narwhal/model/flow"
)

// SigningAlgorithm is the signature scheme of authority keys.
const SigningAlgorithm = crypto.ECDSAP256

// NewHasher returns the hasher used for vote signatures.
func NewHasher() hash.Hasher {
	return hash.NewSHA3_256()
}

// Signer creates votes of the local authority.
type Signer struct {
	localID flow.Identifier
	key     crypto.PrivateKey
}

// NewSigner creates a signer for the local authority. The key must belong
// to SigningAlgorithm.
func NewSigner(localID flow.Identifier, key crypto.PrivateKey) (*Signer, error) {
	if key.Algorithm() != SigningAlgorithm {
		return nil, fmt.Errorf("signing key has algorithm %s, expected %s", key.Algorithm(), SigningAlgorithm)
	}
	s := &Signer{
		localID: localID,
		key:     key,
	}
	return s, nil
}

// CreateVote signs the header on behalf of the local authority.
func (s *Signer) CreateVote(header *flow.Header) (*flow.Vote, error) {
	headerID := header.ID()
	sig, err := s.key.Sign(MakeVoteMessage(headerID), NewHasher())
	if err != nil {
		return nil, fmt.Errorf("could not sign header %x: %w", headerID, err)
	}
	vote := &flow.Vote{
		HeaderID: headerID,
		Round:    header.Round,
		SignerID: s.localID,
		SigData:  sig,
	}
	return vote, nil
}
