package badger_test

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module/metrics"
	"github.com/onflow/flow-narwhal/storage"
	bstorage "github.com/onflow/flow-narwhal/storage/badger"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestCertificatesStoreRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		store := bstorage.NewCertificates(collector, collector, db)

		cert := unittest.CertificateFixture()
		certID := cert.ID()

		exists, err := store.Exists(certID)
		require.NoError(t, err)
		assert.False(t, exists)

		_, err = store.ByID(certID)
		require.ErrorIs(t, err, storage.ErrNotFound)

		require.NoError(t, store.Store(cert))
		// storing the same certificate again is a no-op
		require.NoError(t, store.Store(cert))

		exists, err = store.Exists(certID)
		require.NoError(t, err)
		assert.True(t, exists)

		actual, err := store.ByID(certID)
		require.NoError(t, err)
		assert.Equal(t, cert, actual)

		actual, err = store.ByRoundAuthority(cert.Epoch(), cert.Round(), cert.AuthorID())
		require.NoError(t, err)
		assert.Equal(t, certID, actual.ID())

		_, err = store.ByRoundAuthority(cert.Epoch(), cert.Round()+1, cert.AuthorID())
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCertificatesReadFromDisk(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		cert := unittest.CertificateFixture()
		require.NoError(t, bstorage.NewCertificates(collector, collector, db).Store(cert))

		// a fresh store has a cold cache
		store := bstorage.NewCertificates(collector, collector, db)
		actual, err := store.ByID(cert.ID())
		require.NoError(t, err)
		assert.Equal(t, cert.ID(), actual.ID())
	})
}

func TestCertificatesConflictingAtRoundAuthority(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		store := bstorage.NewCertificates(collector, collector, db)

		first := unittest.CertificateFixture()
		require.NoError(t, store.Store(first))

		conflicting := unittest.CertificateFixture(unittest.WithAuthor(first.AuthorID()), unittest.WithRound(first.Round()))
		err := store.Store(conflicting)
		require.ErrorIs(t, err, storage.ErrDataMismatch)

		// the conflicting certificate was not stored at all
		exists, err := store.Exists(conflicting.ID())
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestCertificatesByRoundRange(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		collector := metrics.NewNoopCollector()
		store := bstorage.NewCertificates(collector, collector, db)

		committee := unittest.CommitteeFixture(4)
		builder := unittest.NewDAGBuilder(committee.Epoch, committee.Authorities)
		builder.AddFullRounds(4)
		for _, cert := range builder.All() {
			require.NoError(t, store.Store(cert))
		}

		certs, err := store.ByRound(committee.Epoch, 2)
		require.NoError(t, err)
		unittest.RequireCertificateIDs(t, builder.Round(2), certs)

		certs, err = store.ByRoundRange(committee.Epoch, 1, 3)
		require.NoError(t, err)
		var expected []*flow.Certificate
		for round := uint64(1); round <= 3; round++ {
			expected = append(expected, builder.Round(round)...)
		}
		unittest.RequireCertificateIDs(t, expected, certs)

		certs, err = store.ByRound(committee.Epoch+1, 2)
		require.NoError(t, err)
		assert.Empty(t, certs)

		_, err = store.ByRoundRange(committee.Epoch, 3, 1)
		require.Error(t, err)
	})
}
