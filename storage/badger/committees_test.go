package badger_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/module/metrics"
	"github.com/onflow/flow-narwhal/storage"
	bstorage "github.com/onflow/flow-narwhal/storage/badger"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestCommitteesGenesis(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		genesis := unittest.CommitteeFixture(4)

		store, err := bstorage.NewCommittees(collector, collector, db, genesis)
		require.NoError(t, err)

		latest, err := store.Latest()
		require.NoError(t, err)
		assert.Equal(t, genesis.ID(), latest.ID())

		// reopening with the same genesis committee is fine
		_, err = bstorage.NewCommittees(collector, collector, db, genesis)
		require.NoError(t, err)

		// reopening with a different genesis committee for the epoch is not
		_, err = bstorage.NewCommittees(collector, collector, db, unittest.CommitteeFixture(4))
		require.ErrorIs(t, err, storage.ErrDataMismatch)
	})
}

func TestCommitteesPerEpoch(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		genesis := unittest.CommitteeFixture(4)
		store, err := bstorage.NewCommittees(collector, collector, db, genesis)
		require.NoError(t, err)

		next := unittest.CommitteeFixture(7, unittest.WithEpoch(genesis.Epoch+1))
		require.NoError(t, store.Store(next))
		require.NoError(t, store.Store(next))

		actual, err := store.ByEpoch(genesis.Epoch)
		require.NoError(t, err)
		assert.Equal(t, genesis.ID(), actual.ID())

		actual, err = store.ByEpoch(next.Epoch)
		require.NoError(t, err)
		assert.Len(t, actual.Authorities, 7)

		latest, err := store.Latest()
		require.NoError(t, err)
		assert.Equal(t, next.Epoch, latest.Epoch)

		_, err = store.ByEpoch(next.Epoch + 1)
		require.ErrorIs(t, err, storage.ErrNotFound)

		err = store.Store(unittest.CommitteeFixture(4, unittest.WithEpoch(next.Epoch)))
		require.ErrorIs(t, err, storage.ErrDataMismatch)
	})
}
