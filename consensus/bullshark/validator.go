package bullshark

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// Validator checks headers, votes and certificates before they reach the
// DAG. Validation is free of side effects on the ordering state and may run
// on many goroutines concurrently.
type Validator interface {

	// ValidateHeader checks the structure of a header against the committee.
	// Expected errors during normal operations:
	//   - model.InvalidCertificateError if the header is malformed
	//   - model.UnknownAuthorityError if the author is not a committee member
	ValidateHeader(header *flow.Header) error

	// ValidateVote checks a vote and returns the identity of its signer.
	// Expected errors during normal operations:
	//   - model.InvalidVoteError for invalid votes
	ValidateVote(vote *flow.Vote) (*flow.Identity, error)

	// ValidateCertificate checks the header of the certificate, that its
	// signers carry quorum weight and that the aggregated signature is valid.
	// Expected errors during normal operations:
	//   - model.InvalidCertificateError if the certificate is invalid
	ValidateCertificate(cert *flow.Certificate) error
}
