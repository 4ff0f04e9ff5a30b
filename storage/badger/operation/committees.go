package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/model/flow"
)

// InsertCommittee stores the committee of an epoch. Inserting the identical
// committee again is a no-op.
// Error returns:
//   - storage.ErrDataMismatch if a different committee is stored for the epoch
func InsertCommittee(committee *flow.EpochCommittee) func(*badger.Txn) error {
	return insertOrCompare(makePrefix(codeCommittee, committee.Epoch), committee)
}

// RetrieveCommittee retrieves the committee of an epoch.
// Error returns:
//   - storage.ErrNotFound if no committee is stored for the epoch
func RetrieveCommittee(epoch uint64, committee *flow.EpochCommittee) func(*badger.Txn) error {
	return retrieve(makePrefix(codeCommittee, epoch), committee)
}

// RetrieveLatestCommittee retrieves the committee with the highest epoch.
// Error returns:
//   - storage.ErrNotFound if no committee is stored
func RetrieveLatestCommittee(committee *flow.EpochCommittee, found *bool) func(*badger.Txn) error {
	*found = false
	return traverse(makePrefix(codeCommittee), func() (checkFunc, createFunc, handleFunc) {
		var next flow.EpochCommittee
		check := func(key []byte) bool {
			return true
		}
		create := func() interface{} {
			return &next
		}
		handle := func() error {
			// keys are ordered by epoch, the last one visited is the latest
			*committee = next
			*found = true
			return nil
		}
		return check, create, handle
	})
}

// DatabaseHasCommittee checks whether any committee is stored.
func DatabaseHasCommittee(found *bool) func(*badger.Txn) error {
	var latest flow.EpochCommittee
	return RetrieveLatestCommittee(&latest, found)
}
