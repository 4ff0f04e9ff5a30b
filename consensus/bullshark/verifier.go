package bullshark

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// Verifier checks signatures. The cryptography is provided by the embedding
// node; the ordering core only needs accept or reject.
type Verifier interface {

	// VerifyVote checks the signature of one authority over the header.
	// Expected errors during normal operations:
	//   - model.ErrInvalidSignature if the signature is invalid
	//   - model.ErrInvalidFormat if the signature data is malformed
	VerifyVote(signer *flow.Identity, sigData []byte, headerID flow.Identifier) error

	// VerifyCertificate checks the aggregated signature of a certificate.
	// Expected errors during normal operations:
	//   - model.ErrInvalidSignature if the signature is invalid
	//   - model.ErrInvalidFormat if the signature data is malformed
	VerifyCertificate(signers flow.IdentityList, sigData []byte, headerID flow.Identifier) error
}

// SignatureAggregator combines the individual vote signatures of one header
// into the signature data of a certificate. Implementations need not be
// concurrency safe; a vote collector serializes access.
type SignatureAggregator interface {

	// Add adds the signature of the given signer.
	Add(signerID flow.Identifier, sig []byte) error

	// Aggregate returns the signers in canonical order and the aggregated
	// signature data.
	Aggregate() (flow.IdentifierList, []byte, error)
}
