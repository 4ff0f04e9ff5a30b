package persister

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/module/metrics"
	bstorage "github.com/onflow/flow-narwhal/storage/badger"
	mockstorage "github.com/onflow/flow-narwhal/storage/mock"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestPersister(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		committee := unittest.CommitteeFixture(4)
		certificates := bstorage.NewCertificates(collector, collector, db)
		persister := New(bstorage.NewCommits(collector, collector, db, certificates, committee.Epoch), committee.Epoch)

		state, err := persister.GetCommitState()
		require.NoError(t, err)
		assert.Equal(t, model.GenesisCommitState(committee.Epoch), state)

		builder := unittest.NewDAGBuilder(committee.Epoch, committee.Authorities)
		builder.AddFullRounds(2)
		for _, cert := range builder.All() {
			require.NoError(t, certificates.Store(cert))
		}
		leader := builder.Round(2)[0]
		subDag := &model.CommittedSubDag{
			Index:        0,
			LeaderRound:  2,
			Leader:       leader,
			Certificates: append(append(builder.Round(0), builder.Round(1)...), leader),
		}
		next := &model.CommitState{Epoch: committee.Epoch, LastCommittedRound: 2, LastCommittedLeader: leader.ID(), NextSubDagIndex: 1}
		require.NoError(t, persister.PutCommit(subDag, next))

		state, err = persister.GetCommitState()
		require.NoError(t, err)
		assert.Equal(t, next, state)
	})
}

func TestPutCommitRejectsIndexGap(t *testing.T) {
	commits := mockstorage.NewCommits(t)
	persister := New(commits, 1)

	subDag := &model.CommittedSubDag{Index: 3, LeaderRound: 8}
	err := persister.PutCommit(subDag, &model.CommitState{Epoch: 1, LastCommittedRound: 8, NextSubDagIndex: 5})
	require.Error(t, err)
	commits.AssertNotCalled(t, "Store")
}
