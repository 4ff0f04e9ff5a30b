package bullshark

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// Replicas is the committee of one epoch as seen by the ordering core. The
// authority set and its weights are fixed for the whole epoch, so no method
// takes a reference block or round apart from leader election.
type Replicas interface {

	// Epoch returns the epoch this committee is responsible for.
	Epoch() uint64

	// Authorities returns all members of the committee in canonical order.
	Authorities() flow.IdentityList

	// Authority returns the full identity of a committee member.
	// ERROR conditions:
	//    * model.UnknownAuthorityError if authorityID is not a member of the committee.
	Authority(authorityID flow.Identifier) (*flow.Identity, error)

	// TotalWeight returns the sum of the weights of all members.
	TotalWeight() uint64

	// QuorumThreshold returns the weight that is minimally required for a
	// quorum, i.e. strictly more than 2/3 of the total weight.
	QuorumThreshold() uint64

	// ValidityThreshold returns the weight that is minimally required to
	// include at least one honest authority, i.e. strictly more than 1/3 of
	// the total weight.
	ValidityThreshold() uint64

	// LeaderForRound returns the authority designated as leader for the given
	// leader round. The result is a pure function of round and committee.
	// ERROR conditions:
	//    * model.InvalidRoundError if round is not a leader round.
	LeaderForRound(round uint64) (flow.Identifier, error)
}
