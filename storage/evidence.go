package storage

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// EquivocationEvidence is a pair of conflicting certificates of the same
// authority and round.
type EquivocationEvidence struct {
	First       *flow.Certificate
	Conflicting *flow.Certificate
}

// Evidence stores proofs of equivocation for downstream slashing.
type Evidence interface {

	// Store persists the evidence. Evidence for a (epoch, round, authority)
	// triple already stored with the same conflicting certificate is a no-op;
	// further conflicting certificates are stored next to it.
	Store(evidence *EquivocationEvidence) error

	// ByAuthority returns all evidence against the authority in the epoch,
	// ordered by round.
	ByAuthority(epoch uint64, authorityID flow.Identifier) ([]*EquivocationEvidence, error)
}
