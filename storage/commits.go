package storage

import (
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

// Commits is the commit log of one epoch: the committed sub-dags in
// index order, the resulting commit state and which certificates are
// committed.
type Commits interface {

	// Store atomically persists the sub-dag, marks all of its certificates
	// committed and replaces the commit state.
	// Expected errors during normal operations:
	//   - storage.ErrAlreadyExists if a sub-dag with the same index is stored
	Store(subDag *model.CommittedSubDag, state *model.CommitState) error

	// State returns the latest commit state.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound before the first commit
	State() (*model.CommitState, error)

	// ByIndex returns the committed sub-dag with the given index.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no sub-dag with that index was committed
	ByIndex(index uint64) (*model.CommittedSubDag, error)

	// Since returns all sub-dags with index >= the given index, in order.
	Since(index uint64) ([]*model.CommittedSubDag, error)

	// IsCommitted returns whether the certificate was part of a committed sub-dag.
	IsCommitted(certID flow.Identifier) (bool, error)
}
