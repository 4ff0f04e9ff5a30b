package dag

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/storage"
)

// vertex is a certificate held by the DAG. Parent edges are digests that
// resolve through the DAG's arena, never direct pointers.
type vertex struct {
	cert       *flow.Certificate
	committed  bool
	insertedAt time.Time
}

// DAG holds the certificates of all retained rounds, at most one per
// authority and round. A certificate is only inserted once all its parents
// are present, so the DAG never contains holes. Rounds below the lowest
// retained round have been garbage collected.
//
// DAG is NOT concurrency safe. It is mutated by the single goroutine running
// the commit rule.
type DAG struct {
	log          zerolog.Logger
	committee    bullshark.Replicas
	metrics      module.OrderingMetrics
	archive      CertificateArchive
	vertices     map[flow.Identifier]*vertex
	rounds       map[uint64]map[flow.Identifier]flow.Identifier // round -> author -> certificate ID
	lowestRound  uint64
	highestRound uint64
}

// CertificateArchive resolves certificates by digest after they were pruned
// from the DAG. storage.Certificates satisfies it.
type CertificateArchive interface {
	ByID(certID flow.Identifier) (*flow.Certificate, error)
}

type Option func(*DAG)

// WithArchive lets the DAG check certificates at its lowest round against
// their pruned parents. Without an archive such certificates are rejected as
// stale unless they are restored.
func WithArchive(archive CertificateArchive) Option {
	return func(d *DAG) {
		d.archive = archive
	}
}

// New creates an empty DAG whose lowest retained round is lowestRound. A fresh
// epoch starts at round 0; a DAG rebuilt after a restart starts at the GC
// floor of the recovered commit state.
func New(log zerolog.Logger, committee bullshark.Replicas, metrics module.OrderingMetrics, lowestRound uint64, opts ...Option) *DAG {
	d := &DAG{
		log:          log.With().Str("component", "dag").Uint64("epoch", committee.Epoch()).Logger(),
		committee:    committee,
		metrics:      metrics,
		vertices:     make(map[flow.Identifier]*vertex),
		rounds:       make(map[uint64]map[flow.Identifier]flow.Identifier),
		lowestRound:  lowestRound,
		highestRound: lowestRound,
	}
	for _, apply := range opts {
		apply(d)
	}
	return d
}

// Insert adds the certificate to the DAG. It returns true if the certificate
// was added and false if the identical certificate was already present.
// Parents of a certificate at the lowest retained round are resolved through
// the archive.
// Expected errors during normal operations:
//   - model.StaleCertificateError if the round was already garbage collected, or
//     the certificate is at the lowest round and the DAG has no archive
//   - model.EquivocationError if the author already has a different certificate at the round
//   - model.MissingParentsError if parents are not in the DAG yet
//   - model.InvalidCertificateError if the certificate violates the structure of the DAG
//
// All other errors are failures of the archive.
func (d *DAG) Insert(cert *flow.Certificate) (bool, error) {
	return d.insert(cert, false)
}

// Restore adds a certificate read back from storage. It behaves like Insert,
// except that parents below the lowest retained round are not checked: the
// certificate passed all checks before it was stored.
func (d *DAG) Restore(cert *flow.Certificate) (bool, error) {
	return d.insert(cert, true)
}

func (d *DAG) insert(cert *flow.Certificate, restored bool) (bool, error) {
	certID := cert.ID()
	round := cert.Round()
	authorID := cert.AuthorID()

	if round < d.lowestRound {
		return false, model.StaleCertificateError{CertificateID: certID, Round: round, LowestRound: d.lowestRound}
	}
	if cert.Epoch() != d.committee.Epoch() {
		return false, model.NewInvalidCertificateErrorf(cert, "certificate of epoch %d inserted into DAG of epoch %d", cert.Epoch(), d.committee.Epoch())
	}
	_, err := d.committee.Authority(authorID)
	if err != nil {
		return false, model.NewInvalidCertificateErrorf(cert, "invalid author: %w", err)
	}

	if existingID, ok := d.rounds[round][authorID]; ok {
		if existingID == certID {
			return false, nil
		}
		return false, model.NewEquivocationError(d.vertices[existingID].cert, cert)
	}

	err = d.checkParents(cert, restored)
	if err != nil {
		return false, err
	}

	d.vertices[certID] = &vertex{cert: cert, insertedAt: time.Now()}
	authors, ok := d.rounds[round]
	if !ok {
		authors = make(map[flow.Identifier]flow.Identifier)
		d.rounds[round] = authors
	}
	authors[authorID] = certID
	if round > d.highestRound {
		d.highestRound = round
	}

	d.metrics.CertificateInserted(round)
	d.metrics.DAGSize(uint(len(d.vertices)), uint(len(d.rounds)))
	d.log.Debug().
		Uint64("round", round).
		Hex("author_id", authorID[:]).
		Hex("certificate_id", certID[:]).
		Int("parents", len(cert.ParentIDs())).
		Msg("certificate inserted into DAG")

	return true, nil
}

// checkParents verifies that the parents of the certificate are distinct,
// present in the previous round and carry quorum weight. Parents below the
// lowest retained round are looked up in the archive; restored certificates
// skip that lookup.
func (d *DAG) checkParents(cert *flow.Certificate, restored bool) error {
	round := cert.Round()
	parentIDs := cert.ParentIDs()

	if round == 0 {
		if len(parentIDs) != 0 {
			return model.NewInvalidCertificateErrorf(cert, "genesis certificate has %d parents", len(parentIDs))
		}
		return nil
	}
	if len(parentIDs) == 0 {
		return model.NewInvalidCertificateErrorf(cert, "certificate has no parents")
	}
	lookup := make(map[flow.Identifier]struct{}, len(parentIDs))
	for _, parentID := range parentIDs {
		if _, duplicate := lookup[parentID]; duplicate {
			return model.NewInvalidCertificateErrorf(cert, "duplicate parent %x", parentID)
		}
		lookup[parentID] = struct{}{}
	}

	resolve := d.retainedParent
	if round-1 < d.lowestRound {
		if restored {
			return nil
		}
		if d.archive == nil {
			return model.StaleCertificateError{CertificateID: cert.ID(), Round: round, LowestRound: d.lowestRound}
		}
		resolve = d.archivedParent
	}

	var missing flow.IdentifierList
	var weight uint64
	for _, parentID := range parentIDs {
		parent, ok, err := resolve(parentID)
		if err != nil {
			return fmt.Errorf("could not resolve parent %x: %w", parentID, err)
		}
		if !ok {
			missing = append(missing, parentID)
			continue
		}
		if parent.Epoch() != cert.Epoch() || parent.Round() != round-1 {
			return model.NewInvalidCertificateErrorf(cert, "parent %x is at epoch %d round %d, expected epoch %d round %d",
				parentID, parent.Epoch(), parent.Round(), cert.Epoch(), round-1)
		}
		authority, err := d.committee.Authority(parent.AuthorID())
		if err != nil {
			return fmt.Errorf("author of parent %x is not a committee member: %w", parentID, err)
		}
		weight += authority.Weight
	}
	if len(missing) > 0 {
		return model.MissingParentsError{CertificateID: cert.ID(), Round: round, Missing: missing}
	}
	if weight < d.committee.QuorumThreshold() {
		return model.NewInvalidCertificateErrorf(cert, "parents carry weight %d, quorum requires %d", weight, d.committee.QuorumThreshold())
	}
	return nil
}

func (d *DAG) retainedParent(parentID flow.Identifier) (*flow.Certificate, bool, error) {
	v, ok := d.vertices[parentID]
	if !ok {
		return nil, false, nil
	}
	return v.cert, true, nil
}

func (d *DAG) archivedParent(parentID flow.Identifier) (*flow.Certificate, bool, error) {
	parent, err := d.archive.ByID(parentID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return parent, true, nil
}

// MissingParents returns the parents of the certificate that are not in the
// DAG. Parents below the lowest retained round are never reported missing.
func (d *DAG) MissingParents(cert *flow.Certificate) flow.IdentifierList {
	if cert.Round() == 0 || cert.Round()-1 < d.lowestRound {
		return nil
	}
	var missing flow.IdentifierList
	for _, parentID := range cert.ParentIDs() {
		if _, ok := d.vertices[parentID]; !ok {
			missing = append(missing, parentID)
		}
	}
	return missing
}

// Certificate returns the certificate with the given digest, if present.
func (d *DAG) Certificate(certID flow.Identifier) (*flow.Certificate, bool) {
	v, ok := d.vertices[certID]
	if !ok {
		return nil, false
	}
	return v.cert, true
}

// Contains returns whether the certificate is in the DAG.
func (d *DAG) Contains(certID flow.Identifier) bool {
	_, ok := d.vertices[certID]
	return ok
}

// CertificateAt returns the certificate of the author at the round, if present.
func (d *DAG) CertificateAt(round uint64, authorID flow.Identifier) (*flow.Certificate, bool) {
	certID, ok := d.rounds[round][authorID]
	if !ok {
		return nil, false
	}
	return d.vertices[certID].cert, true
}

// RoundCertificates returns the certificates of the round by author.
func (d *DAG) RoundCertificates(round uint64) map[flow.Identifier]*flow.Certificate {
	authors := d.rounds[round]
	certs := make(map[flow.Identifier]*flow.Certificate, len(authors))
	for authorID, certID := range authors {
		certs[authorID] = d.vertices[certID].cert
	}
	return certs
}

// InsertedAt returns when the certificate was inserted into the DAG.
func (d *DAG) InsertedAt(certID flow.Identifier) (time.Time, bool) {
	v, ok := d.vertices[certID]
	if !ok {
		return time.Time{}, false
	}
	return v.insertedAt, true
}

// MarkCommitted marks a certificate as part of the committed order.
func (d *DAG) MarkCommitted(certID flow.Identifier) error {
	v, ok := d.vertices[certID]
	if !ok {
		return fmt.Errorf("cannot mark unknown certificate %x committed", certID)
	}
	v.committed = true
	return nil
}

// IsCommitted returns whether the certificate is part of the committed order.
// Unknown certificates are reported as not committed.
func (d *DAG) IsCommitted(certID flow.Identifier) bool {
	v, ok := d.vertices[certID]
	return ok && v.committed
}

// HighestRound returns the highest round with a certificate. An empty DAG
// reports its lowest round.
func (d *DAG) HighestRound() uint64 {
	return d.highestRound
}

// LowestRound returns the lowest retained round.
func (d *DAG) LowestRound() uint64 {
	return d.lowestRound
}

// Size returns the number of certificates in the DAG.
func (d *DAG) Size() int {
	return len(d.vertices)
}

// PruneBelow drops all rounds strictly below the given round and returns the
// number of dropped certificates. Pruning never moves the lowest round down.
func (d *DAG) PruneBelow(round uint64) int {
	if round <= d.lowestRound {
		return 0
	}
	pruned := 0
	for r, authors := range d.rounds {
		if r >= round {
			continue
		}
		for _, certID := range authors {
			delete(d.vertices, certID)
			pruned++
		}
		delete(d.rounds, r)
	}
	d.lowestRound = round
	if d.highestRound < round {
		d.highestRound = round
	}

	d.metrics.DAGSize(uint(len(d.vertices)), uint(len(d.rounds)))
	d.log.Debug().
		Uint64("lowest_round", round).
		Int("pruned_certificates", pruned).
		Msg("DAG pruned")
	return pruned
}

// IsLinked returns whether there is a path of parent edges from the
// certificate `from` down to the certificate `to`. Only retained rounds are
// considered.
func (d *DAG) IsLinked(fromID flow.Identifier, toID flow.Identifier) bool {
	from, ok := d.vertices[fromID]
	if !ok {
		return false
	}
	to, ok := d.vertices[toID]
	if !ok {
		return false
	}
	if from.cert.Round() < to.cert.Round() {
		return false
	}

	// walk down round by round, keeping only the frontier of the current round
	frontier := map[flow.Identifier]struct{}{fromID: {}}
	for round := from.cert.Round(); round > to.cert.Round(); round-- {
		next := make(map[flow.Identifier]struct{})
		for certID := range frontier {
			for _, parentID := range d.vertices[certID].cert.ParentIDs() {
				if _, ok := d.vertices[parentID]; ok {
					next[parentID] = struct{}{}
				}
			}
		}
		if len(next) == 0 {
			return false
		}
		frontier = next
	}
	_, linked := frontier[toID]
	return linked
}

// Ancestors returns an iterator over the retained causal history of the
// certificate, the certificate itself excluded. Ancestors are produced round
// by round, highest round first.
func (d *DAG) Ancestors(certID flow.Identifier) *AncestorIterator {
	it := &AncestorIterator{
		dag:     d,
		visited: make(map[flow.Identifier]struct{}),
	}
	if v, ok := d.vertices[certID]; ok {
		it.enqueueParents(v.cert)
	}
	return it
}

// AncestorIterator lazily walks parent links. It must not be used across
// mutations of the DAG.
type AncestorIterator struct {
	dag     *DAG
	queue   []flow.Identifier
	visited map[flow.Identifier]struct{}
}

func (it *AncestorIterator) enqueueParents(cert *flow.Certificate) {
	for _, parentID := range cert.ParentIDs() {
		if _, seen := it.visited[parentID]; seen {
			continue
		}
		if _, ok := it.dag.vertices[parentID]; !ok {
			continue
		}
		it.visited[parentID] = struct{}{}
		it.queue = append(it.queue, parentID)
	}
}

// Next returns the next ancestor, or false if the history is exhausted.
func (it *AncestorIterator) Next() (*flow.Certificate, bool) {
	if len(it.queue) == 0 {
		return nil, false
	}
	certID := it.queue[0]
	it.queue = it.queue[1:]
	cert := it.dag.vertices[certID].cert
	it.enqueueParents(cert)
	return cert, true
}
