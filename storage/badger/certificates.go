package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v2"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/module/irrecoverable"
	"github.com/onflow/flow-narwhal/module/metrics"
	"github.com/onflow/flow-narwhal/storage"
	"github.com/onflow/flow-narwhal/storage/badger/operation"
)

// roundAuthority is the key of the (epoch, round, authority) index.
type roundAuthority struct {
	epoch       uint64
	round       uint64
	authorityID flow.Identifier
}

// Certificates implements the append-only certificate store on top of a
// badger DB.
type Certificates struct {
	db      *badger.DB
	storage module.StorageMetrics
	cache   *Cache[flow.Identifier, *flow.Certificate]
	index   *Cache[roundAuthority, flow.Identifier]
}

var _ storage.Certificates = (*Certificates)(nil)

func NewCertificates(collector module.CacheMetrics, storageCollector module.StorageMetrics, db *badger.DB) *Certificates {

	retrieve := func(certID flow.Identifier) func(*badger.Txn) (*flow.Certificate, error) {
		return func(tx *badger.Txn) (*flow.Certificate, error) {
			var cert flow.Certificate
			err := operation.RetrieveCertificate(certID, &cert)(tx)
			return &cert, err
		}
	}

	lookup := func(key roundAuthority) func(*badger.Txn) (flow.Identifier, error) {
		return func(tx *badger.Txn) (flow.Identifier, error) {
			var certID flow.Identifier
			err := operation.LookupCertificateByRoundAuthority(key.epoch, key.round, key.authorityID, &certID)(tx)
			return certID, err
		}
	}

	c := &Certificates{
		db:      db,
		storage: storageCollector,
		cache: newCache[flow.Identifier, *flow.Certificate](collector, metrics.ResourceCertificate,
			withLimit[flow.Identifier, *flow.Certificate](4000),
			withRetrieve(retrieve),
		),
		index: newCache[roundAuthority, flow.Identifier](collector, metrics.ResourceCertificateIndex,
			withLimit[roundAuthority, flow.Identifier](4000),
			withRetrieve(lookup),
		),
	}

	return c
}

func (c *Certificates) storeTx(certID flow.Identifier, cert *flow.Certificate) func(*badger.Txn) error {
	return func(tx *badger.Txn) error {
		err := operation.SkipDuplicates(c.storage, operation.InsertCertificate(certID, cert))(tx)
		if err != nil {
			return fmt.Errorf("could not insert certificate: %w", err)
		}
		err = operation.IndexCertificateByRoundAuthority(cert.Epoch(), cert.Round(), cert.AuthorID(), certID)(tx)
		if err != nil {
			return fmt.Errorf("could not index certificate by round and authority: %w", err)
		}
		return nil
	}
}

func (c *Certificates) retrieveTx(certID flow.Identifier) func(*badger.Txn) (*flow.Certificate, error) {
	return c.cache.Get(certID)
}

func (c *Certificates) Store(cert *flow.Certificate) error {
	certID := cert.ID()
	err := operation.TerminateOnFullDisk(operation.RetryOnConflict(c.storage, c.db.Update, c.storeTx(certID, cert)))
	if err != nil {
		return err
	}
	c.cache.Insert(certID, cert)
	c.index.Insert(roundAuthority{epoch: cert.Epoch(), round: cert.Round(), authorityID: cert.AuthorID()}, certID)
	return nil
}

func (c *Certificates) ByID(certID flow.Identifier) (*flow.Certificate, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	return c.retrieveTx(certID)(tx)
}

func (c *Certificates) Exists(certID flow.Identifier) (bool, error) {
	if c.cache.IsCached(certID) {
		return true, nil
	}
	var found bool
	err := c.db.View(operation.CertificateExists(certID, &found))
	if err != nil {
		return false, fmt.Errorf("could not check certificate existence: %w", err)
	}
	return found, nil
}

func (c *Certificates) ByRoundAuthority(epoch uint64, round uint64, authorityID flow.Identifier) (*flow.Certificate, error) {
	tx := c.db.NewTransaction(false)
	defer tx.Discard()
	certID, err := c.index.Get(roundAuthority{epoch: epoch, round: round, authorityID: authorityID})(tx)
	if err != nil {
		return nil, fmt.Errorf("could not look up certificate: %w", err)
	}
	return c.retrieveTx(certID)(tx)
}

func (c *Certificates) ByRound(epoch uint64, round uint64) ([]*flow.Certificate, error) {
	return c.ByRoundRange(epoch, round, round)
}

func (c *Certificates) ByRoundRange(epoch uint64, from uint64, to uint64) ([]*flow.Certificate, error) {
	if from > to {
		return nil, fmt.Errorf("invalid round range [%d, %d]", from, to)
	}
	tx := c.db.NewTransaction(false)
	defer tx.Discard()

	var certIDs []flow.Identifier
	err := operation.LookupCertificatesByRoundRange(epoch, from, to, &certIDs)(tx)
	if err != nil {
		return nil, fmt.Errorf("could not look up certificates of rounds [%d, %d]: %w", from, to, err)
	}
	certs := make([]*flow.Certificate, 0, len(certIDs))
	for _, certID := range certIDs {
		cert, err := c.retrieveTx(certID)(tx)
		if errors.Is(err, storage.ErrNotFound) {
			return nil, irrecoverableIndexError(certID, err)
		}
		if err != nil {
			return nil, fmt.Errorf("could not retrieve certificate %x: %w", certID, err)
		}
		certs = append(certs, cert)
	}
	return certs, nil
}

// irrecoverableIndexError is returned when an index points to a certificate
// that is not stored, which means the database is corrupted.
func irrecoverableIndexError(certID flow.Identifier, err error) error {
	return irrecoverable.NewExceptionf("indexed certificate %x is missing: %w", certID, err)
}
