package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

// SubDagRecord is the stored form of a committed sub-dag. Certificates are
// referenced by digest; they are resolved from the certificate store.
type SubDagRecord struct {
	Index               uint64
	LeaderRound         uint64
	LeaderID            flow.Identifier
	CertificateIDs      flow.IdentifierList
	SkippedLeaderRounds []uint64
}

// InsertSubDag stores a committed sub-dag record under its index.
// Error returns:
//   - storage.ErrAlreadyExists if a sub-dag with the same index is stored
func InsertSubDag(epoch uint64, record *SubDagRecord) func(*badger.Txn) error {
	return insert(makePrefix(codeSubDag, epoch, record.Index), record)
}

// RetrieveSubDag retrieves the committed sub-dag record with the given index.
// Error returns:
//   - storage.ErrNotFound if no sub-dag with the index is stored
func RetrieveSubDag(epoch uint64, index uint64, record *SubDagRecord) func(*badger.Txn) error {
	return retrieve(makePrefix(codeSubDag, epoch, index), record)
}

// TraverseSubDagsSince calls fn for every stored sub-dag record with index
// greater or equal to the given one, in index order.
func TraverseSubDagsSince(epoch uint64, index uint64, fn func(*SubDagRecord) error) func(*badger.Txn) error {
	start := makePrefix(codeSubDag, epoch, index)
	end := makePrefix(codeSubDag, epoch, ^uint64(0))
	return iterate(start, end, func() (checkFunc, createFunc, handleFunc) {
		var record SubDagRecord
		check := func(key []byte) bool {
			return true
		}
		create := func() interface{} {
			return &record
		}
		handle := func() error {
			next := record
			return fn(&next)
		}
		return check, create, handle
	})
}

// UpdateCommitState replaces the commit state of the epoch.
func UpdateCommitState(state *model.CommitState) func(*badger.Txn) error {
	return upsert(makePrefix(codeCommitState, state.Epoch), state)
}

// RetrieveCommitState retrieves the commit state of the epoch.
// Error returns:
//   - storage.ErrNotFound before the first commit of the epoch
func RetrieveCommitState(epoch uint64, state *model.CommitState) func(*badger.Txn) error {
	return retrieve(makePrefix(codeCommitState, epoch), state)
}

// IndexCommittedCertificate marks a certificate as committed by the sub-dag
// with the given index.
// Error returns:
//   - storage.ErrAlreadyExists if the certificate is already marked committed
func IndexCommittedCertificate(epoch uint64, certID flow.Identifier, index uint64) func(*badger.Txn) error {
	return insert(makePrefix(codeCommittedCertificate, epoch, certID), index)
}

// CertificateCommitted checks whether a certificate is marked committed.
func CertificateCommitted(epoch uint64, certID flow.Identifier, committed *bool) func(*badger.Txn) error {
	return exists(makePrefix(codeCommittedCertificate, epoch, certID), committed)
}
