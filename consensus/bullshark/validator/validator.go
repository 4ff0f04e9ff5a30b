package validator

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/model/flow/order"
)

// Validator validates headers, votes and certificates against the
// committee of one epoch. It holds no mutable state and is safe for
// concurrent use.
type Validator struct {
	committee bullshark.Replicas
	verifier  bullshark.Verifier
}

var _ bullshark.Validator = (*Validator)(nil)

// New creates a new validator for the committee.
func New(committee bullshark.Replicas, verifier bullshark.Verifier) *Validator {
	v := &Validator{
		committee: committee,
		verifier:  verifier,
	}
	return v
}

// ValidateHeader checks the structure of a header: epoch, author, and a
// parent set without duplicates that is empty exactly for genesis headers.
// Parent rounds and the parent quorum are checked when the certificate is
// inserted into the DAG.
// Expected errors during normal operations:
//   - model.InvalidCertificateError if the header is malformed; it wraps a
//     model.UnknownAuthorityError if the author is not a committee member
func (v *Validator) ValidateHeader(header *flow.Header) error {
	if header.Epoch != v.committee.Epoch() {
		return model.NewInvalidHeaderErrorf(header, "header of epoch %d, expected %d", header.Epoch, v.committee.Epoch())
	}
	_, err := v.committee.Authority(header.AuthorID)
	if model.IsUnknownAuthorityError(err) {
		return model.NewInvalidHeaderErrorf(header, "invalid author: %w", err)
	}
	if err != nil {
		return fmt.Errorf("could not look up author %x: %w", header.AuthorID, err)
	}

	if header.IsGenesis() {
		if len(header.ParentIDs) > 0 {
			return model.NewInvalidHeaderErrorf(header, "genesis header has %d parents", len(header.ParentIDs))
		}
		return nil
	}
	if len(header.ParentIDs) == 0 {
		return model.NewInvalidHeaderErrorf(header, "header at round %d has no parents", header.Round)
	}
	if len(header.ParentIDs) > len(v.committee.Authorities()) {
		return model.NewInvalidHeaderErrorf(header, "header cites %d parents for a committee of %d", len(header.ParentIDs), len(v.committee.Authorities()))
	}
	if duplicate, ok := firstDuplicate(header.ParentIDs); ok {
		return model.NewInvalidHeaderErrorf(header, "duplicate parent %x", duplicate)
	}
	if duplicate, ok := firstDuplicate(header.PayloadDigests); ok {
		return model.NewInvalidHeaderErrorf(header, "duplicate payload digest %x", duplicate)
	}
	return nil
}

// ValidateVote checks that the vote is signed by a committee member and
// returns the signer.
// Expected errors during normal operations:
//   - model.InvalidVoteError for unknown signers and invalid signatures
func (v *Validator) ValidateVote(vote *flow.Vote) (*flow.Identity, error) {
	signer, err := v.committee.Authority(vote.SignerID)
	if model.IsUnknownAuthorityError(err) {
		return nil, model.NewInvalidVoteErrorf(vote, "invalid signer: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up signer %x: %w", vote.SignerID, err)
	}

	err = v.verifier.VerifyVote(signer, vote.SigData, vote.HeaderID)
	if errors.Is(err, model.ErrInvalidSignature) || errors.Is(err, model.ErrInvalidFormat) {
		return nil, model.NewInvalidVoteErrorf(vote, "invalid signature: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("could not verify vote %x: %w", vote.ID(), err)
	}
	return signer, nil
}

// ValidateCertificate checks the header of the certificate, that its
// signers are distinct committee members in canonical order carrying quorum
// weight and that their signatures are valid. Genesis certificates carry no
// signatures.
// Expected errors during normal operations:
//   - model.InvalidCertificateError if the certificate is invalid
func (v *Validator) ValidateCertificate(cert *flow.Certificate) error {
	err := v.ValidateHeader(&cert.Header)
	if err != nil {
		return err
	}
	if cert.Header.IsGenesis() {
		if len(cert.SignerIDs) > 0 || len(cert.SigData) > 0 {
			return model.NewInvalidCertificateErrorf(cert, "genesis certificate carries signatures")
		}
		return nil
	}

	if !slices.IsSortedFunc(cert.SignerIDs, order.IdentifierCanonical) {
		return model.NewInvalidCertificateErrorf(cert, "signers are not in canonical order")
	}
	if duplicate, ok := firstDuplicate(cert.SignerIDs); ok {
		return model.NewInvalidCertificateErrorf(cert, "duplicate signer %x", duplicate)
	}

	signers := make(flow.IdentityList, 0, len(cert.SignerIDs))
	var weight uint64
	for _, signerID := range cert.SignerIDs {
		signer, err := v.committee.Authority(signerID)
		if model.IsUnknownAuthorityError(err) {
			return model.NewInvalidCertificateErrorf(cert, "invalid signer: %w", err)
		}
		if err != nil {
			return fmt.Errorf("could not look up signer %x: %w", signerID, err)
		}
		signers = append(signers, signer)
		weight += signer.Weight
	}
	if weight < v.committee.QuorumThreshold() {
		return model.NewInvalidCertificateErrorf(cert, "signers carry weight %d below quorum %d", weight, v.committee.QuorumThreshold())
	}

	err = v.verifier.VerifyCertificate(signers, cert.SigData, cert.Header.ID())
	if errors.Is(err, model.ErrInvalidSignature) || errors.Is(err, model.ErrInvalidFormat) {
		return model.NewInvalidCertificateErrorf(cert, "invalid signature data: %w", err)
	}
	if err != nil {
		return fmt.Errorf("could not verify certificate %x: %w", cert.ID(), err)
	}
	return nil
}

func firstDuplicate(ids flow.IdentifierList) (flow.Identifier, bool) {
	seen := make(map[flow.Identifier]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return id, true
		}
		seen[id] = struct{}{}
	}
	return flow.ZeroID, false
}
