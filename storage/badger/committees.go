package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/module/metrics"
	"github.com/onflow/flow-narwhal/storage"
	"github.com/onflow/flow-narwhal/storage/badger/operation"
)

// Committees stores the committee of every epoch.
type Committees struct {
	db      *badger.DB
	storage module.StorageMetrics
	cache   *Cache[uint64, *flow.EpochCommittee]
}

var _ storage.Committees = (*Committees)(nil)

// NewCommittees opens the committee store. If the database holds no committee
// yet, the genesis committee is inserted. Otherwise the genesis committee must
// match the stored committee of its epoch.
// Expected errors during normal operations:
//   - storage.ErrDataMismatch if a different committee is stored for the genesis epoch
func NewCommittees(collector module.CacheMetrics, storageCollector module.StorageMetrics, db *badger.DB, genesis *flow.EpochCommittee) (*Committees, error) {

	retrieve := func(epoch uint64) func(*badger.Txn) (*flow.EpochCommittee, error) {
		return func(tx *badger.Txn) (*flow.EpochCommittee, error) {
			var committee flow.EpochCommittee
			err := operation.RetrieveCommittee(epoch, &committee)(tx)
			return &committee, err
		}
	}

	c := &Committees{
		db:      db,
		storage: storageCollector,
		cache: newCache[uint64, *flow.EpochCommittee](collector, metrics.ResourceCommittee,
			withLimit[uint64, *flow.EpochCommittee](10),
			withRetrieve(retrieve),
		),
	}

	err := c.Store(genesis)
	if err != nil {
		return nil, fmt.Errorf("could not initialize genesis committee: %w", err)
	}

	return c, nil
}

func (c *Committees) Store(committee *flow.EpochCommittee) error {
	err := operation.TerminateOnFullDisk(operation.RetryOnConflict(c.storage, c.db.Update, operation.InsertCommittee(committee)))
	if err != nil {
		return fmt.Errorf("could not store committee of epoch %d: %w", committee.Epoch, err)
	}
	c.cache.Insert(committee.Epoch, committee)
	return nil
}

func (c *Committees) ByEpoch(epoch uint64) (*flow.EpochCommittee, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	return c.cache.Get(epoch)(tx)
}

func (c *Committees) Latest() (*flow.EpochCommittee, error) {
	var committee flow.EpochCommittee
	var found bool
	err := c.db.View(operation.RetrieveLatestCommittee(&committee, &found))
	if err != nil {
		return nil, fmt.Errorf("could not retrieve latest committee: %w", err)
	}
	if !found {
		// NewCommittees always inserts the genesis committee
		return nil, errors.New("committee store is empty")
	}
	return &committee, nil
}
