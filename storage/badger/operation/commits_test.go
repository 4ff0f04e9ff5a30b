package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/storage"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestSubDagInsertRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := SubDagRecord{
			Index:               3,
			LeaderRound:         8,
			LeaderID:            unittest.IdentifierFixture(),
			CertificateIDs:      unittest.IdentifierListFixture(5),
			SkippedLeaderRounds: []uint64{6},
		}

		err := db.Update(InsertSubDag(1, &expected))
		require.NoError(t, err)

		var actual SubDagRecord
		err = db.View(RetrieveSubDag(1, 3, &actual))
		require.NoError(t, err)
		assert.Equal(t, expected, actual)

		err = db.Update(InsertSubDag(1, &expected))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)

		err = db.View(RetrieveSubDag(2, 3, &actual))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestTraverseSubDagsSince(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		for index := uint64(0); index < 5; index++ {
			record := SubDagRecord{Index: index, LeaderRound: 2 * (index + 1), LeaderID: unittest.IdentifierFixture()}
			require.NoError(t, db.Update(InsertSubDag(1, &record)))
		}
		other := SubDagRecord{Index: 9}
		require.NoError(t, db.Update(InsertSubDag(2, &other)))

		var indices []uint64
		err := db.View(TraverseSubDagsSince(1, 2, func(record *SubDagRecord) error {
			indices = append(indices, record.Index)
			return nil
		}))
		require.NoError(t, err)
		assert.Equal(t, []uint64{2, 3, 4}, indices)
	})
}

func TestCommitStateUpdateRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var actual model.CommitState
		err := db.View(RetrieveCommitState(1, &actual))
		require.ErrorIs(t, err, storage.ErrNotFound)

		state := model.CommitState{Epoch: 1, LastCommittedRound: 2, LastCommittedLeader: unittest.IdentifierFixture(), NextSubDagIndex: 1}
		require.NoError(t, db.Update(UpdateCommitState(&state)))

		state.LastCommittedRound = 4
		state.NextSubDagIndex = 2
		require.NoError(t, db.Update(UpdateCommitState(&state)))

		err = db.View(RetrieveCommitState(1, &actual))
		require.NoError(t, err)
		assert.Equal(t, state, actual)
	})
}

func TestCommittedCertificateIndex(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		certID := unittest.IdentifierFixture()

		var committed bool
		require.NoError(t, db.View(CertificateCommitted(1, certID, &committed)))
		assert.False(t, committed)

		require.NoError(t, db.Update(IndexCommittedCertificate(1, certID, 0)))
		require.NoError(t, db.View(CertificateCommitted(1, certID, &committed)))
		assert.True(t, committed)

		err := db.Update(IndexCommittedCertificate(1, certID, 1))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}
