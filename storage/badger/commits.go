package badger

import (
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/module/metrics"
	"github.com/onflow/flow-narwhal/storage"
	"github.com/onflow/flow-narwhal/storage/badger/operation"
)

// Commits is the commit log of one epoch. Sub-dags are stored by reference
// and their certificates resolved from the certificate store on read.
type Commits struct {
	db           *badger.DB
	storage      module.StorageMetrics
	epoch        uint64
	certificates *Certificates
	cache        *Cache[uint64, *model.CommittedSubDag]
}

var _ storage.Commits = (*Commits)(nil)

func NewCommits(collector module.CacheMetrics, storageCollector module.StorageMetrics, db *badger.DB, certificates *Certificates, epoch uint64) *Commits {
	c := &Commits{
		db:           db,
		storage:      storageCollector,
		epoch:        epoch,
		certificates: certificates,
	}

	retrieve := func(index uint64) func(*badger.Txn) (*model.CommittedSubDag, error) {
		return func(tx *badger.Txn) (*model.CommittedSubDag, error) {
			var record operation.SubDagRecord
			err := operation.RetrieveSubDag(epoch, index, &record)(tx)
			if err != nil {
				return nil, err
			}
			return c.resolve(tx, &record)
		}
	}

	c.cache = newCache[uint64, *model.CommittedSubDag](collector, metrics.ResourceCommit,
		withLimit[uint64, *model.CommittedSubDag](100),
		withRetrieve(retrieve),
	)

	return c
}

// resolve turns a stored record back into a sub-dag.
func (c *Commits) resolve(tx *badger.Txn, record *operation.SubDagRecord) (*model.CommittedSubDag, error) {
	subDag := &model.CommittedSubDag{
		Index:               record.Index,
		LeaderRound:         record.LeaderRound,
		Certificates:        make([]*flow.Certificate, 0, len(record.CertificateIDs)),
		SkippedLeaderRounds: record.SkippedLeaderRounds,
	}
	for _, certID := range record.CertificateIDs {
		cert, err := c.certificates.retrieveTx(certID)(tx)
		if err != nil {
			return nil, irrecoverableIndexError(certID, err)
		}
		subDag.Certificates = append(subDag.Certificates, cert)
		if certID == record.LeaderID {
			subDag.Leader = cert
		}
	}
	if subDag.Leader == nil {
		return nil, fmt.Errorf("leader %x of sub-dag %d is not part of its certificates", record.LeaderID, record.Index)
	}
	return subDag, nil
}

func (c *Commits) storeTx(subDag *model.CommittedSubDag, state *model.CommitState) func(*badger.Txn) error {
	record := &operation.SubDagRecord{
		Index:               subDag.Index,
		LeaderRound:         subDag.LeaderRound,
		LeaderID:            subDag.LeaderID(),
		CertificateIDs:      subDag.CertificateIDs(),
		SkippedLeaderRounds: subDag.SkippedLeaderRounds,
	}
	return func(tx *badger.Txn) error {
		err := operation.InsertSubDag(c.epoch, record)(tx)
		if err != nil {
			return fmt.Errorf("could not insert sub-dag %d: %w", record.Index, err)
		}
		for _, certID := range record.CertificateIDs {
			err = operation.IndexCommittedCertificate(c.epoch, certID, record.Index)(tx)
			if err != nil {
				return fmt.Errorf("could not mark certificate %x committed: %w", certID, err)
			}
		}
		err = operation.UpdateCommitState(state)(tx)
		if err != nil {
			return fmt.Errorf("could not update commit state: %w", err)
		}
		return nil
	}
}

func (c *Commits) Store(subDag *model.CommittedSubDag, state *model.CommitState) error {
	if state.Epoch != c.epoch {
		return fmt.Errorf("commit state of epoch %d stored in commit log of epoch %d", state.Epoch, c.epoch)
	}
	err := operation.TerminateOnFullDisk(operation.RetryOnConflict(c.storage, c.db.Update, c.storeTx(subDag, state)))
	if err != nil {
		return err
	}
	c.cache.Insert(subDag.Index, subDag)
	return nil
}

func (c *Commits) State() (*model.CommitState, error) {
	var state model.CommitState
	err := c.db.View(operation.RetrieveCommitState(c.epoch, &state))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve commit state: %w", err)
	}
	return &state, nil
}

func (c *Commits) ByIndex(index uint64) (*model.CommittedSubDag, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	return c.cache.Get(index)(tx)
}

func (c *Commits) Since(index uint64) ([]*model.CommittedSubDag, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	var subDags []*model.CommittedSubDag
	err := operation.TraverseSubDagsSince(c.epoch, index, func(record *operation.SubDagRecord) error {
		subDag, err := c.resolve(tx, record)
		if err != nil {
			return err
		}
		subDags = append(subDags, subDag)
		return nil
	})(tx)
	if err != nil {
		return nil, fmt.Errorf("could not read commit log since %d: %w", index, err)
	}
	return subDags, nil
}

func (c *Commits) IsCommitted(certID flow.Identifier) (bool, error) {
	var committed bool
	err := c.db.View(operation.CertificateCommitted(c.epoch, certID, &committed))
	if err != nil {
		return false, fmt.Errorf("could not check whether certificate is committed: %w", err)
	}
	return committed, nil
}
