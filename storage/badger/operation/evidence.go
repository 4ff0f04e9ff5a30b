package operation

import (
	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/storage"
)

// InsertEvidence stores a pair of conflicting certificates, keyed by epoch,
// author, round and the digest of the conflicting certificate.
// Error returns:
//   - storage.ErrAlreadyExists if the same evidence is already stored
func InsertEvidence(evidence *storage.EquivocationEvidence) func(*badger.Txn) error {
	first := evidence.First
	key := makePrefix(codeEvidence, first.Epoch(), first.AuthorID(), first.Round(), evidence.Conflicting.ID())
	return insert(key, evidence)
}

// TraverseEvidenceByAuthority collects all evidence against an authority in
// the epoch, ordered by round.
func TraverseEvidenceByAuthority(epoch uint64, authorityID flow.Identifier, evidence *[]*storage.EquivocationEvidence) func(*badger.Txn) error {
	*evidence = nil
	return traverse(makePrefix(codeEvidence, epoch, authorityID), func() (checkFunc, createFunc, handleFunc) {
		var next storage.EquivocationEvidence
		check := func(key []byte) bool {
			return true
		}
		create := func() interface{} {
			return &next
		}
		handle := func() error {
			stored := next
			*evidence = append(*evidence, &stored)
			return nil
		}
		return check, create, handle
	})
}
