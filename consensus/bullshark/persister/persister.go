package persister

import (
	"errors"
	"fmt"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/storage"
)

// Persister persists the commit log and the commit state of one epoch.
type Persister struct {
	commits storage.Commits
	epoch   uint64
}

var _ bullshark.Persister = (*Persister)(nil)

// New creates a persister writing into the commit log of the epoch.
func New(commits storage.Commits, epoch uint64) *Persister {
	p := &Persister{
		commits: commits,
		epoch:   epoch,
	}
	return p
}

// GetCommitState retrieves the last persisted commit state. An epoch that
// has not committed anything yet starts from the genesis commit state.
func (p *Persister) GetCommitState() (*model.CommitState, error) {
	state, err := p.commits.State()
	if errors.Is(err, storage.ErrNotFound) {
		return model.GenesisCommitState(p.epoch), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not read commit state of epoch %d: %w", p.epoch, err)
	}
	return state, nil
}

// PutCommit persists a committed sub-dag together with the commit state it
// results in. Both are written atomically.
func (p *Persister) PutCommit(subDag *model.CommittedSubDag, state *model.CommitState) error {
	if state.NextSubDagIndex != subDag.Index+1 {
		return fmt.Errorf("commit state expects next sub-dag %d after sub-dag %d", state.NextSubDagIndex, subDag.Index)
	}
	return p.commits.Store(subDag, state)
}
