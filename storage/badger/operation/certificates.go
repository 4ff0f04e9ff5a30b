package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/model/flow"
)

// InsertCertificate stores the certificate under its digest.
// Error returns:
//   - storage.ErrAlreadyExists if a certificate with the digest is already stored
func InsertCertificate(certID flow.Identifier, cert *flow.Certificate) func(*badger.Txn) error {
	return insert(makePrefix(codeCertificate, certID), cert)
}

// RetrieveCertificate retrieves the certificate with the given digest.
// Error returns:
//   - storage.ErrNotFound if no certificate with the digest is stored
func RetrieveCertificate(certID flow.Identifier, cert *flow.Certificate) func(*badger.Txn) error {
	return retrieve(makePrefix(codeCertificate, certID), cert)
}

// CertificateExists checks whether a certificate with the given digest is stored.
func CertificateExists(certID flow.Identifier, certExists *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeCertificate, certID), certExists)
}

// IndexCertificateByRoundAuthority indexes the certificate digest by epoch,
// round and author. Indexing the same digest again is a no-op.
// Error returns:
//   - storage.ErrDataMismatch if a different digest is indexed for the triple
func IndexCertificateByRoundAuthority(epoch uint64, round uint64, authorityID flow.Identifier, certID flow.Identifier) func(*badger.Txn) error {
	return insertOrCompare(makePrefix(codeCertificateByRoundAuthority, epoch, round, authorityID), &certID)
}

// LookupCertificateByRoundAuthority finds the digest of the certificate of the
// authority at the given round.
// Error returns:
//   - storage.ErrNotFound if the authority has no indexed certificate at the round
func LookupCertificateByRoundAuthority(epoch uint64, round uint64, authorityID flow.Identifier, certID *flow.Identifier) func(*badger.Txn) error {
	return retrieve(makePrefix(codeCertificateByRoundAuthority, epoch, round, authorityID), certID)
}

// LookupCertificatesByRoundRange finds the digests of all certificates with
// round in [from, to], ordered by round and author ID.
func LookupCertificatesByRoundRange(epoch uint64, from uint64, to uint64, certIDs *[]flow.Identifier) func(*badger.Txn) error {
	start := makePrefix(codeCertificateByRoundAuthority, epoch, from)
	end := makePrefix(codeCertificateByRoundAuthority, epoch, to)
	return iterate(start, end, lookup(certIDs))
}

// lookup is the default iteration function allowing us to collect a list of
// entity IDs from an index.
func lookup(entityIDs *[]flow.Identifier) func() (checkFunc, createFunc, handleFunc) {
	*entityIDs = make([]flow.Identifier, 0, len(*entityIDs))
	return func() (checkFunc, createFunc, handleFunc) {
		check := func(key []byte) bool {
			return true
		}
		var entityID flow.Identifier
		create := func() interface{} {
			return &entityID
		}
		handle := func() error {
			*entityIDs = append(*entityIDs, entityID)
			return nil
		}
		return check, create, handle
	}
}
