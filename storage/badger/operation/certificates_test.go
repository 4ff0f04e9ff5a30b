package operation

import (
	"testing"

	"github.com/dgraph-io/badger/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/storage"
	"github.com/onflow/flow-narwhal/utils/unittest"
)

func TestCertificateInsertCheckRetrieve(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		expected := unittest.CertificateFixture()
		certID := expected.ID()

		var exists bool
		err := db.View(CertificateExists(certID, &exists))
		require.NoError(t, err)
		require.False(t, exists)

		err = db.Update(InsertCertificate(certID, expected))
		require.NoError(t, err)

		err = db.View(CertificateExists(certID, &exists))
		require.NoError(t, err)
		require.True(t, exists)

		var actual flow.Certificate
		err = db.View(RetrieveCertificate(certID, &actual))
		require.NoError(t, err)
		assert.Equal(t, *expected, actual)
		assert.Equal(t, certID, actual.ID())

		err = db.Update(InsertCertificate(certID, expected))
		require.ErrorIs(t, err, storage.ErrAlreadyExists)
	})
}

func TestCertificateRetrieveMissing(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		var cert flow.Certificate
		err := db.View(RetrieveCertificate(unittest.IdentifierFixture(), &cert))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCertificateIndexByRoundAuthority(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		authorID := unittest.IdentifierFixture()
		certID := unittest.IdentifierFixture()

		err := db.Update(IndexCertificateByRoundAuthority(1, 5, authorID, certID))
		require.NoError(t, err)

		// indexing the same digest again is a no-op
		err = db.Update(IndexCertificateByRoundAuthority(1, 5, authorID, certID))
		require.NoError(t, err)

		// a different digest for the same triple is rejected
		err = db.Update(IndexCertificateByRoundAuthority(1, 5, authorID, unittest.IdentifierFixture()))
		require.ErrorIs(t, err, storage.ErrDataMismatch)

		var actual flow.Identifier
		err = db.View(LookupCertificateByRoundAuthority(1, 5, authorID, &actual))
		require.NoError(t, err)
		assert.Equal(t, certID, actual)

		err = db.View(LookupCertificateByRoundAuthority(2, 5, authorID, &actual))
		require.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestCertificatesByRoundRange(t *testing.T) {
	unittest.RunWithBadgerDB(t, func(db *badger.DB) {
		authors := flow.IdentifierList{{0x03}, {0x01}, {0x02}}
		expected := make(map[uint64]flow.IdentifierList)
		for round := uint64(0); round < 6; round++ {
			for _, author := range authors {
				certID := unittest.IdentifierFixture()
				err := db.Update(IndexCertificateByRoundAuthority(1, round, author, certID))
				require.NoError(t, err)
				expected[round] = append(expected[round], certID)
			}
		}
		// same rounds in another epoch must not show up
		err := db.Update(IndexCertificateByRoundAuthority(2, 3, authors[0], unittest.IdentifierFixture()))
		require.NoError(t, err)

		var actual []flow.Identifier
		err = db.View(LookupCertificatesByRoundRange(1, 2, 4, &actual))
		require.NoError(t, err)
		require.Len(t, actual, 9)

		// within a round the digests are ordered by author ID: {0x01}, {0x02}, {0x03}
		for i, round := range []uint64{2, 3, 4} {
			ids := expected[round]
			assert.Equal(t, flow.IdentifierList{ids[1], ids[2], ids[0]}, flow.IdentifierList(actual[i*3:i*3+3]))
		}

		err = db.View(LookupCertificatesByRoundRange(1, 10, 12, &actual))
		require.NoError(t, err)
		assert.Empty(t, actual)
	})
}
