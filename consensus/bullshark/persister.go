package bullshark

import (
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
)

// Persister persists the commit rule's progress. A commit is only announced
// after it was persisted, so that a restarted replica never emits a
// sub-dag twice and never skips one.
type Persister interface {

	// GetCommitState will retrieve the last persisted commit state.
	// Returns storage.ErrNotFound before the first commit.
	GetCommitState() (*model.CommitState, error)

	// PutCommit atomically persists the committed sub-dag together with the
	// commit state that results from it.
	PutCommit(subDag *model.CommittedSubDag, state *model.CommitState) error
}
