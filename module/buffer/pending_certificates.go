package buffer

import (
	"sync"

	"github.com/onflow/flow-narwhal/model/flow"
)

// PendingCertificate is a certificate waiting for missing parents.
type PendingCertificate struct {
	OriginID    flow.Identifier
	Certificate *flow.Certificate
	Missing     flow.IdentifierList
}

// PendingCertificates buffers certificates whose parents are not in the DAG
// yet, indexed by the digests of the missing parents. The buffer holds at
// most `capacity` certificates; further certificates are rejected until
// pruning or insertion of parents makes room.
//
// PendingCertificates is concurrency safe.
type PendingCertificates struct {
	lock     sync.Mutex
	capacity uint
	byID     map[flow.Identifier]*PendingCertificate
	byParent map[flow.Identifier]map[flow.Identifier]struct{}
	byRound  map[uint64]map[flow.Identifier]struct{}
}

func NewPendingCertificates(capacity uint) *PendingCertificates {
	return &PendingCertificates{
		capacity: capacity,
		byID:     make(map[flow.Identifier]*PendingCertificate),
		byParent: make(map[flow.Identifier]map[flow.Identifier]struct{}),
		byRound:  make(map[uint64]map[flow.Identifier]struct{}),
	}
}

// Add buffers the certificate until the missing parents are inserted. It
// returns false if the certificate is already buffered or the buffer is full.
func (b *PendingCertificates) Add(originID flow.Identifier, cert *flow.Certificate, missing flow.IdentifierList) bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	certID := cert.ID()
	if _, ok := b.byID[certID]; ok {
		return false
	}
	if uint(len(b.byID)) >= b.capacity {
		return false
	}

	b.byID[certID] = &PendingCertificate{
		OriginID:    originID,
		Certificate: cert,
		Missing:     missing.Copy(),
	}
	for _, parentID := range missing {
		addToIndex(b.byParent, parentID, certID)
	}
	addToIndex(b.byRound, cert.Round(), certID)
	return true
}

// ByID returns the buffered certificate with the digest.
func (b *PendingCertificates) ByID(certID flow.Identifier) (*PendingCertificate, bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	pending, ok := b.byID[certID]
	return pending, ok
}

// ExtractChildren removes and returns all buffered certificates waiting for
// the given parent, in no particular order. Children still missing other
// parents have to be added again by the caller.
func (b *PendingCertificates) ExtractChildren(parentID flow.Identifier) []*PendingCertificate {
	b.lock.Lock()
	defer b.lock.Unlock()

	children := b.byParent[parentID]
	if len(children) == 0 {
		return nil
	}
	extracted := make([]*PendingCertificate, 0, len(children))
	for certID := range children {
		extracted = append(extracted, b.byID[certID])
		b.remove(certID)
	}
	return extracted
}

// PruneBelow drops all certificates of rounds below the given round. It
// returns the number of dropped certificates.
func (b *PendingCertificates) PruneBelow(round uint64) int {
	b.lock.Lock()
	defer b.lock.Unlock()

	var pruned int
	for r, certIDs := range b.byRound {
		if r >= round {
			continue
		}
		for certID := range certIDs {
			b.remove(certID)
			pruned++
		}
	}
	return pruned
}

// Size returns the number of buffered certificates.
func (b *PendingCertificates) Size() uint {
	b.lock.Lock()
	defer b.lock.Unlock()
	return uint(len(b.byID))
}

// remove drops the certificate from all indices. The caller must hold the lock.
func (b *PendingCertificates) remove(certID flow.Identifier) {
	pending, ok := b.byID[certID]
	if !ok {
		return
	}
	delete(b.byID, certID)
	for _, parentID := range pending.Missing {
		removeFromIndex(b.byParent, parentID, certID)
	}
	removeFromIndex(b.byRound, pending.Certificate.Round(), certID)
}

func addToIndex[K comparable](index map[K]map[flow.Identifier]struct{}, key K, certID flow.Identifier) {
	certIDs, ok := index[key]
	if !ok {
		certIDs = make(map[flow.Identifier]struct{})
		index[key] = certIDs
	}
	certIDs[certID] = struct{}{}
}

func removeFromIndex[K comparable](index map[K]map[flow.Identifier]struct{}, key K, certID flow.Identifier) {
	certIDs, ok := index[key]
	if !ok {
		return
	}
	delete(certIDs, certID)
	if len(certIDs) == 0 {
		delete(index, key)
	}
}
