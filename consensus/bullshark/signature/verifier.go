package signature

import (
	"fmt"

	"github.com/onflow/flow-go/crypto"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

// Verifier verifies vote and certificate signatures with the public keys
// of the committee.
type Verifier struct{}

var _ bullshark.Verifier = (*Verifier)(nil)

func NewVerifier() *Verifier {
	return &Verifier{}
}

// VerifyVote checks the signature of one authority over the header.
// Expected errors during normal operations:
//   - model.ErrInvalidSignature if the signature is invalid
//   - model.ErrInvalidFormat if the signature or the public key is malformed
func (v *Verifier) VerifyVote(signer *flow.Identity, sigData []byte, headerID flow.Identifier) error {
	key, err := crypto.DecodePublicKey(SigningAlgorithm, signer.PublicKey)
	if err != nil {
		return fmt.Errorf("could not decode public key of %x: %v: %w", signer.NodeID, err, model.ErrInvalidFormat)
	}
	valid, err := key.Verify(sigData, MakeVoteMessage(headerID), NewHasher())
	if err != nil {
		return fmt.Errorf("could not verify signature of %x: %v: %w", signer.NodeID, err, model.ErrInvalidFormat)
	}
	if !valid {
		return fmt.Errorf("signature of %x over header %x: %w", signer.NodeID, headerID, model.ErrInvalidSignature)
	}
	return nil
}

// VerifyCertificate checks the signature of every signer of a certificate.
// The signers must be given in the canonical order the signatures were
// packed in.
// Expected errors during normal operations:
//   - model.ErrInvalidSignature if any signature is invalid
//   - model.ErrInvalidFormat if the signature data is malformed
func (v *Verifier) VerifyCertificate(signers flow.IdentityList, sigData []byte, headerID flow.Identifier) error {
	sigs, err := Unpack(sigData, len(signers))
	if err != nil {
		return err
	}
	for i, signer := range signers {
		err = v.VerifyVote(signer, sigs[i], headerID)
		if err != nil {
			return err
		}
	}
	return nil
}
