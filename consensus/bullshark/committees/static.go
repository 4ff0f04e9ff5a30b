package committees

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/committees/leader"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/model/flow/order"
)

// Static is the committee of one epoch. It never changes after construction,
// a new epoch needs a new instance.
type Static struct {
	epoch             uint64
	authorities       flow.IdentityList
	lookup            map[flow.Identifier]*flow.Identity
	totalWeight       uint64
	quorumThreshold   uint64
	validityThreshold uint64
	leaders           *leader.Selection
}

var _ bullshark.Replicas = (*Static)(nil)

// NewStaticCommittee validates the committee of an epoch and sets up leader
// election for it. All problems with the committee are reported together
// as a model.ConfigurationError.
func NewStaticCommittee(committee *flow.EpochCommittee) (*Static, error) {
	err := ValidateCommittee(committee.Authorities)
	if err != nil {
		return nil, model.NewConfigurationErrorf("invalid committee for epoch %d: %w", committee.Epoch, err)
	}

	selection, err := leader.NewSelection(committee.RandomSource, committee.Authorities, leader.DefaultCacheSize)
	if err != nil {
		return nil, model.NewConfigurationErrorf("could not initialize leader selection for epoch %d: %w", committee.Epoch, err)
	}

	authorities := committee.Authorities.Sort(order.IdentityCanonical)
	totalWeight := authorities.TotalWeight()
	return &Static{
		epoch:             committee.Epoch,
		authorities:       authorities,
		lookup:            authorities.Lookup(),
		totalWeight:       totalWeight,
		quorumThreshold:   WeightThresholdForQuorum(totalWeight),
		validityThreshold: WeightThresholdForValidity(totalWeight),
		leaders:           selection,
	}, nil
}

// ValidateCommittee checks that the authority set is usable: it is not
// empty, has no duplicate or zero node IDs and has a positive total weight
// that does not overflow.
func ValidateCommittee(authorities flow.IdentityList) error {
	if len(authorities) == 0 {
		return fmt.Errorf("committee is empty")
	}

	var result *multierror.Error
	seen := make(map[flow.Identifier]struct{}, len(authorities))
	var total uint64
	for i, identity := range authorities {
		if identity == nil {
			result = multierror.Append(result, fmt.Errorf("authority at index %d is nil", i))
			continue
		}
		if identity.NodeID == flow.ZeroID {
			result = multierror.Append(result, fmt.Errorf("authority at index %d has zero node ID", i))
		}
		if _, duplicate := seen[identity.NodeID]; duplicate {
			result = multierror.Append(result, fmt.Errorf("duplicate authority %x", identity.NodeID))
		}
		seen[identity.NodeID] = struct{}{}
		if total+identity.Weight < total {
			result = multierror.Append(result, fmt.Errorf("total weight overflows at authority %x", identity.NodeID))
		}
		total += identity.Weight
	}
	if total == 0 {
		result = multierror.Append(result, fmt.Errorf("total weight must be greater than 0"))
	}
	return result.ErrorOrNil()
}

func (c *Static) Epoch() uint64 {
	return c.epoch
}

func (c *Static) Authorities() flow.IdentityList {
	return c.authorities
}

func (c *Static) Authority(authorityID flow.Identifier) (*flow.Identity, error) {
	identity, ok := c.lookup[authorityID]
	if !ok {
		return nil, model.NewUnknownAuthorityError(authorityID)
	}
	return identity, nil
}

func (c *Static) TotalWeight() uint64 {
	return c.totalWeight
}

func (c *Static) QuorumThreshold() uint64 {
	return c.quorumThreshold
}

func (c *Static) ValidityThreshold() uint64 {
	return c.validityThreshold
}

func (c *Static) LeaderForRound(round uint64) (flow.Identifier, error) {
	return c.leaders.LeaderForRound(round)
}
