package recovery

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/dag"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/consensus/bullshark/orderer"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/storage"
)

// Recover rebuilds the ordering state of an epoch after a restart. It reads
// the last persisted commit state, re-inserts every stored certificate from
// the GC round of that state upwards into a fresh DAG and then evaluates the
// commit rule for the leader rounds the stored DAG can decide. The returned
// sub-dags were committed during recovery and have already been persisted.
func Recover(
	log zerolog.Logger,
	config orderer.Config,
	committee bullshark.Replicas,
	certificates storage.Certificates,
	commits storage.Commits,
	evidence storage.Evidence,
	persister bullshark.Persister,
	notifier bullshark.Consumer,
	metrics module.OrderingMetrics,
) (*orderer.Orderer, []*model.CommittedSubDag, error) {
	log = log.With().Str("component", "recovery").Uint64("epoch", committee.Epoch()).Logger()

	state, err := persister.GetCommitState()
	if err != nil {
		return nil, nil, fmt.Errorf("could not load commit state: %w", err)
	}
	floor := config.GCRound(state.LastCommittedRound)

	o, err := orderer.New(
		log,
		config,
		committee,
		dag.New(log, committee, metrics, floor, dag.WithArchive(certificates)),
		certificates,
		evidence,
		persister,
		notifier,
		metrics,
		state,
	)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create orderer: %w", err)
	}

	stored, err := certificates.ByRoundRange(committee.Epoch(), floor, math.MaxUint64)
	if err != nil {
		return nil, nil, fmt.Errorf("could not read certificates from round %d: %w", floor, err)
	}

	log.Info().
		Int("total", len(stored)).
		Uint64("gc_round", floor).
		Uint64("last_committed_round", state.LastCommittedRound).
		Msg("recovery started")

	// the certificate index is ordered by round, so parents are always
	// restored before their children
	for _, cert := range stored {
		committed, err := commits.IsCommitted(cert.ID())
		if err != nil {
			return nil, nil, fmt.Errorf("could not check commit status of certificate %x: %w", cert.ID(), err)
		}
		err = o.Restore(cert, committed)
		if err != nil {
			return nil, nil, err
		}
	}

	resumed, err := o.Resume()
	if err != nil {
		return nil, nil, fmt.Errorf("could not resume commit rule: %w", err)
	}

	log.Info().
		Int("restored", o.DAG().Size()).
		Uint64("highest_round", o.DAG().HighestRound()).
		Int("committed", len(resumed)).
		Msg("recovery completed")

	return o, resumed, nil
}
