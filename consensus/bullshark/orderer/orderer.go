package orderer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/committees/leader"
	"github.com/onflow/flow-narwhal/consensus/bullshark/dag"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/storage"
	"github.com/onflow/flow-narwhal/utils/logging"
)

// Orderer implements the commit rule on top of the DAG. Each inserted
// certificate may decide the leader of the preceding leader round; committing
// a leader first commits the earlier leaders it is causally linked to and then
// linearizes the uncommitted causal history of each of them.
//
// A leader L of leader round R is committed directly when the certificates of
// round R+1 that list L as a parent carry at least quorum weight. Any quorum of
// round R+1 intersects this support in at least one honest certificate, so
// every certificate of round R+2 or later has a path to L. Walking back from a
// committed leader and committing every earlier leader it has a path to
// therefore yields the same sequence of leaders on every honest replica.
//
// Orderer is NOT concurrency safe. It is driven by a single goroutine that is
// the only writer of the DAG and the commit state.
type Orderer struct {
	log          zerolog.Logger
	config       Config
	committee    bullshark.Replicas
	dag          *dag.DAG
	certificates storage.Certificates
	evidence     storage.Evidence
	persister    bullshark.Persister
	notifier     bullshark.Consumer
	metrics      module.OrderingMetrics
	state        *model.CommitState
	// timedOut is the highest leader round reported as timed out
	timedOut uint64
}

// New creates the commit rule for the epoch of the committee, starting from
// the given commit state. The DAG must be empty or rebuilt from the store for
// that state.
// Expected errors during normal operations:
//   - model.ConfigurationError if the config is invalid, the state belongs to another
//     epoch or the DAG does not start at the GC round of the state
func New(
	log zerolog.Logger,
	config Config,
	committee bullshark.Replicas,
	dag *dag.DAG,
	certificates storage.Certificates,
	evidence storage.Evidence,
	persister bullshark.Persister,
	notifier bullshark.Consumer,
	metrics module.OrderingMetrics,
	state *model.CommitState,
) (*Orderer, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}
	if state.Epoch != committee.Epoch() {
		return nil, model.NewConfigurationErrorf("commit state of epoch %d does not match committee of epoch %d", state.Epoch, committee.Epoch())
	}
	if dag.LowestRound() != config.GCRound(state.LastCommittedRound) {
		return nil, model.NewConfigurationErrorf("DAG starts at round %d but the commit state retains rounds from %d", dag.LowestRound(), config.GCRound(state.LastCommittedRound))
	}

	o := &Orderer{
		log:          log.With().Str("component", "orderer").Uint64("epoch", committee.Epoch()).Logger(),
		config:       config,
		committee:    committee,
		dag:          dag,
		certificates: certificates,
		evidence:     evidence,
		persister:    persister,
		notifier:     notifier,
		metrics:      metrics,
		state:        state.Copy(),
		timedOut:     state.LastCommittedRound,
	}
	return o, nil
}

// CommitState returns a copy of the current commit state.
func (o *Orderer) CommitState() *model.CommitState {
	return o.state.Copy()
}

// GCRound returns the lowest round that is retained for the current commit
// state.
func (o *Orderer) GCRound() uint64 {
	return o.config.GCRound(o.state.LastCommittedRound)
}

// DAG returns the DAG the orderer operates on. The caller must not mutate it.
func (o *Orderer) DAG() *dag.DAG {
	return o.dag
}

// ProcessCertificate inserts the certificate into the DAG, persists it and
// evaluates the commit rule. It returns the sub-dags committed as a
// consequence, in order. Inserting a certificate that is already in the DAG
// is a no-op.
// Expected errors during normal operations:
//   - model.StaleCertificateError if the certificate is below the GC round
//   - model.EquivocationError if the author already has a different certificate
//     at the round; the evidence is stored and reported
//   - model.MissingParentsError if parents of the certificate are not in the DAG
//   - model.InvalidCertificateError if the certificate violates the DAG structure
//
// All other errors are symptoms of storage failures or bugs and the replica
// must not continue.
func (o *Orderer) ProcessCertificate(cert *flow.Certificate) ([]*model.CommittedSubDag, error) {
	inserted, err := o.dag.Insert(cert)
	if err != nil {
		return nil, o.handleInsertError(err)
	}
	if !inserted {
		return nil, nil
	}

	err = o.certificates.Store(cert)
	if err != nil {
		return nil, fmt.Errorf("could not store certificate %x: %w", cert.ID(), err)
	}
	o.notifier.OnCertificateInserted(cert)

	var committed []*model.CommittedSubDag
	if cert.Round()%2 == 1 && cert.Round() >= 3 {
		committed, err = o.tryCommit(cert.Round() - 1)
		if err != nil {
			return nil, fmt.Errorf("could not evaluate commit rule for round %d: %w", cert.Round()-1, err)
		}
	}

	o.checkLeaderTimeouts()
	return committed, nil
}

// handleInsertError reports equivocations and structurally invalid
// certificates to the consumer and passes the error on.
func (o *Orderer) handleInsertError(err error) error {
	if equivocation, ok := model.AsEquivocationError(err); ok {
		o.log.Warn().
			Uint64("round", equivocation.First.Round()).
			Hex("author_id", logging.ID(equivocation.First.AuthorID())).
			Hex("first_id", logging.ID(equivocation.First.ID())).
			Hex("conflicting_id", logging.ID(equivocation.Conflicting.ID())).
			Msg("equivocation detected")
		storeErr := o.evidence.Store(&storage.EquivocationEvidence{First: equivocation.First, Conflicting: equivocation.Conflicting})
		if storeErr != nil {
			return fmt.Errorf("could not store equivocation evidence: %w", storeErr)
		}
		o.metrics.EquivocationDetected()
		o.notifier.OnEquivocationDetected(equivocation.First, equivocation.Conflicting)
		return err
	}
	if invalid, ok := model.AsInvalidCertificateError(err); ok {
		o.notifier.OnInvalidCertificateDetected(*invalid)
		return err
	}
	return err
}

// Restore inserts a certificate read from the store into the DAG without
// persisting it again or evaluating the commit rule. It is used to rebuild
// the DAG after a restart, in round order.
func (o *Orderer) Restore(cert *flow.Certificate, committed bool) error {
	_, err := o.dag.Restore(cert)
	if err != nil {
		return fmt.Errorf("could not restore certificate %x: %w", cert.ID(), err)
	}
	if committed {
		return o.dag.MarkCommitted(cert.ID())
	}
	return nil
}

// Resume evaluates the commit rule for every leader round above the last
// committed round that the restored DAG can decide. Commits that were
// persisted before a restart are not repeated, because the commit state
// already covers them.
func (o *Orderer) Resume() ([]*model.CommittedSubDag, error) {
	var committed []*model.CommittedSubDag
	for round := o.state.LastCommittedRound + 2; round+1 <= o.dag.HighestRound(); round += 2 {
		if !leader.IsLeaderRound(round) {
			continue
		}
		subDags, err := o.tryCommit(round)
		if err != nil {
			return nil, fmt.Errorf("could not evaluate commit rule for round %d: %w", round, err)
		}
		committed = append(committed, subDags...)
	}
	o.checkLeaderTimeouts()
	return committed, nil
}

// tryCommit commits the leader of the leader round if it has quorum support
// in the next round, together with all earlier leaders it is linked to.
func (o *Orderer) tryCommit(leaderRound uint64) ([]*model.CommittedSubDag, error) {
	if leaderRound <= o.state.LastCommittedRound || !leader.IsLeaderRound(leaderRound) {
		return nil, nil
	}
	anchor, ok, err := o.leaderCertificate(leaderRound)
	if err != nil || !ok {
		return nil, err
	}
	if o.support(anchor) < o.committee.QuorumThreshold() {
		return nil, nil
	}

	leaders, err := o.orderLeaders(anchor)
	if err != nil {
		return nil, err
	}

	committed := make([]*model.CommittedSubDag, 0, len(leaders))
	for _, leaderCert := range leaders {
		subDag, err := o.commit(leaderCert)
		if err != nil {
			return nil, fmt.Errorf("could not commit leader %x of round %d: %w", leaderCert.ID(), leaderCert.Round(), err)
		}
		committed = append(committed, subDag)
	}

	o.collectGarbage()
	return committed, nil
}

// leaderCertificate returns the certificate of the leader of the round, if
// it is in the DAG.
func (o *Orderer) leaderCertificate(round uint64) (*flow.Certificate, bool, error) {
	leaderID, err := o.committee.LeaderForRound(round)
	if err != nil {
		return nil, false, fmt.Errorf("could not determine leader of round %d: %w", round, err)
	}
	cert, ok := o.dag.CertificateAt(round, leaderID)
	return cert, ok, nil
}

// support returns the weight of the certificates of the next round that list
// the leader certificate as a parent.
func (o *Orderer) support(leaderCert *flow.Certificate) uint64 {
	leaderID := leaderCert.ID()
	var weight uint64
	for authorID, cert := range o.dag.RoundCertificates(leaderCert.Round() + 1) {
		if !cert.ParentIDs().Contains(leaderID) {
			continue
		}
		authority, err := o.committee.Authority(authorID)
		if err != nil {
			// the DAG only holds certificates of committee members
			continue
		}
		weight += authority.Weight
	}
	return weight
}

// orderLeaders walks back from the anchor through the undecided leader
// rounds. An earlier leader is committed if the current anchor has a path to
// it, and becomes the anchor for the rounds below. Leaders are returned
// oldest first, the given anchor last.
func (o *Orderer) orderLeaders(anchor *flow.Certificate) ([]*flow.Certificate, error) {
	leaders := []*flow.Certificate{anchor}
	current := anchor
	for round := anchor.Round() - 2; round > o.state.LastCommittedRound && leader.IsLeaderRound(round); round -= 2 {
		prev, ok, err := o.leaderCertificate(round)
		if err != nil {
			return nil, err
		}
		if !ok || !o.dag.IsLinked(current.ID(), prev.ID()) {
			continue
		}
		leaders = append(leaders, prev)
		current = prev
	}

	// reverse into commit order
	for i, j := 0, len(leaders)-1; i < j; i, j = i+1, j-1 {
		leaders[i], leaders[j] = leaders[j], leaders[i]
	}
	return leaders, nil
}

// commit linearizes the history of the leader, persists the resulting
// sub-dag together with the new commit state and announces it.
func (o *Orderer) commit(leaderCert *flow.Certificate) (*model.CommittedSubDag, error) {
	leaderID := leaderCert.ID()
	skipped := o.skippedLeaderRounds(leaderCert.Round())
	certs := linearize(o.dag, leaderCert, gcRound(leaderCert.Round(), o.config.GCDepth))

	subDag := &model.CommittedSubDag{
		Index:               o.state.NextSubDagIndex,
		LeaderRound:         leaderCert.Round(),
		Leader:              leaderCert,
		Certificates:        certs,
		SkippedLeaderRounds: skipped,
	}
	state := &model.CommitState{
		Epoch:               o.state.Epoch,
		LastCommittedRound:  leaderCert.Round(),
		LastCommittedLeader: leaderID,
		NextSubDagIndex:     o.state.NextSubDagIndex + 1,
	}

	err := o.persister.PutCommit(subDag, state)
	if err != nil {
		return nil, fmt.Errorf("could not persist sub-dag %d: %w", subDag.Index, err)
	}
	for _, cert := range certs {
		err = o.dag.MarkCommitted(cert.ID())
		if err != nil {
			return nil, fmt.Errorf("committed certificate is not in the DAG: %w", err)
		}
	}
	o.state = state

	for _, round := range skipped {
		leaderID, err := o.committee.LeaderForRound(round)
		if err != nil {
			return nil, fmt.Errorf("could not determine leader of skipped round %d: %w", round, err)
		}
		o.log.Warn().Uint64("round", round).Hex("leader_id", logging.ID(leaderID)).Msg("leader round skipped")
		o.metrics.LeaderSkipped(round)
		o.notifier.OnLeaderSkipped(round, leaderID)
	}

	var latency time.Duration
	if insertedAt, ok := o.dag.InsertedAt(leaderID); ok {
		latency = time.Since(insertedAt)
	}
	o.metrics.SubDagCommitted(subDag.LeaderRound, len(certs), latency)
	o.log.Info().
		Uint64("index", subDag.Index).
		Uint64("leader_round", subDag.LeaderRound).
		Hex("leader_id", logging.ID(leaderID)).
		Int("certificates", len(certs)).
		Uints64("skipped_rounds", skipped).
		Msg("sub-dag committed")
	o.notifier.OnCommittedSubDag(subDag)

	return subDag, nil
}

// skippedLeaderRounds returns the leader rounds strictly between the last
// committed round and the given leader round.
func (o *Orderer) skippedLeaderRounds(leaderRound uint64) []uint64 {
	var skipped []uint64
	for round := o.state.LastCommittedRound + 2; round < leaderRound; round += 2 {
		if leader.IsLeaderRound(round) {
			skipped = append(skipped, round)
		}
	}
	return skipped
}

// collectGarbage prunes the DAG below the GC round of the commit state.
func (o *Orderer) collectGarbage() {
	round := o.GCRound()
	if round <= o.dag.LowestRound() {
		return
	}
	pruned := o.dag.PruneBelow(round)
	o.metrics.GarbageCollected(round)
	o.log.Debug().Uint64("gc_round", round).Int("pruned", pruned).Msg("garbage collected DAG")
	o.notifier.OnPruned(round)
}

// checkLeaderTimeouts reports, once per round, every undecided leader round
// the DAG frontier has advanced more than the lookahead beyond.
func (o *Orderer) checkLeaderTimeouts() {
	start := o.timedOut
	if o.state.LastCommittedRound > start {
		start = o.state.LastCommittedRound
	}
	highest := o.dag.HighestRound()
	for round := start + 2; round+o.config.LeaderLookahead < highest; round += 2 {
		o.timedOut = round
		leaderID, err := o.committee.LeaderForRound(round)
		if err != nil {
			o.log.Error().Err(err).Uint64("round", round).Msg("could not determine leader for timeout")
			continue
		}
		o.log.Warn().
			Uint64("round", round).
			Hex("leader_id", logging.ID(leaderID)).
			Uint64("highest_round", highest).
			Msg("leader round timed out")
		o.metrics.LeaderTimeout(round)
		o.notifier.OnLeaderTimeout(round, leaderID)
	}
}

// gcRound returns round - depth, saturating at zero.
func gcRound(round uint64, depth uint64) uint64 {
	if round < depth {
		return 0
	}
	return round - depth
}
