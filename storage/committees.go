package storage

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// Committees stores the committee of every epoch.
type Committees interface {

	// Store persists the committee of a new epoch. Storing the identical
	// committee again is a no-op.
	// Expected errors during normal operations:
	//   - storage.ErrDataMismatch if a different committee is stored for the epoch
	Store(committee *flow.EpochCommittee) error

	// ByEpoch returns the committee of the given epoch.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no committee is stored for the epoch
	ByEpoch(epoch uint64) (*flow.EpochCommittee, error)

	// Latest returns the committee of the highest stored epoch.
	Latest() (*flow.EpochCommittee, error)
}
