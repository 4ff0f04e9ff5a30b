package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/storage"
	"github.com/onflow/flow-narwhal/storage/badger/operation"
)

// Evidence persists equivocation evidence. It is written rarely and read by
// slashing tooling only, so it is not cached.
type Evidence struct {
	db      *badger.DB
	storage module.StorageMetrics
}

var _ storage.Evidence = (*Evidence)(nil)

func NewEvidence(storageCollector module.StorageMetrics, db *badger.DB) *Evidence {
	return &Evidence{
		db:      db,
		storage: storageCollector,
	}
}

func (e *Evidence) Store(evidence *storage.EquivocationEvidence) error {
	op := operation.SkipDuplicates(e.storage, operation.InsertEvidence(evidence))
	err := operation.TerminateOnFullDisk(operation.RetryOnConflict(e.storage, e.db.Update, op))
	if err != nil {
		return fmt.Errorf("could not store equivocation evidence against %x: %w", evidence.First.AuthorID(), err)
	}
	return nil
}

func (e *Evidence) ByAuthority(epoch uint64, authorityID flow.Identifier) ([]*storage.EquivocationEvidence, error) {
	var evidence []*storage.EquivocationEvidence
	err := e.db.View(operation.TraverseEvidenceByAuthority(epoch, authorityID, &evidence))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve equivocation evidence: %w", err)
	}
	return evidence, nil
}
