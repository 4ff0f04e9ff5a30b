package voteaggregator

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/utils/logging"
)

// voteKey identifies the slot a signer can vote for once: one header per
// author and round.
type voteKey struct {
	round    uint64
	authorID flow.Identifier
	signerID flow.Identifier
}

// VoteAggregator turns votes into certificates. It keeps one VoteCollector
// per known header, caches votes that arrive before their header, and
// detects authorities voting for two headers of the same author and round.
//
// VoteAggregator is concurrency safe.
type VoteAggregator struct {
	log           zerolog.Logger
	committee     bullshark.Replicas
	validator     bullshark.Validator
	newAggregator func() bullshark.SignatureAggregator
	onCreated     OnCertificateCreated

	lock        sync.Mutex
	lowestRound uint64
	collectors  map[flow.Identifier]*VoteCollector
	pending     map[flow.Identifier][]*flow.Vote
	rounds      map[uint64]map[flow.Identifier]struct{} // header IDs with collectors or pending votes
	votes       map[voteKey]*flow.Vote
}

func New(
	log zerolog.Logger,
	committee bullshark.Replicas,
	validator bullshark.Validator,
	newAggregator func() bullshark.SignatureAggregator,
	onCreated OnCertificateCreated,
) *VoteAggregator {
	return &VoteAggregator{
		log:           log.With().Str("component", "vote_aggregator").Uint64("epoch", committee.Epoch()).Logger(),
		committee:     committee,
		validator:     validator,
		newAggregator: newAggregator,
		onCreated:     onCreated,
		collectors:    make(map[flow.Identifier]*VoteCollector),
		pending:       make(map[flow.Identifier][]*flow.Vote),
		rounds:        make(map[uint64]map[flow.Identifier]struct{}),
		votes:         make(map[voteKey]*flow.Vote),
	}
}

// AddHeader starts collecting votes for the header and processes votes for it
// that arrived earlier. Headers below the lowest retained round and known
// headers are ignored.
// Expected errors during normal operations:
//   - model.InvalidCertificateError if the header is invalid
func (a *VoteAggregator) AddHeader(header *flow.Header) error {
	err := a.validator.ValidateHeader(header)
	if err != nil {
		return err
	}

	headerID := header.ID()
	a.lock.Lock()
	if header.Round < a.lowestRound {
		a.lock.Unlock()
		return nil
	}
	if _, ok := a.collectors[headerID]; ok {
		a.lock.Unlock()
		return nil
	}
	collector := NewVoteCollector(header, a.committee.QuorumThreshold(), a.newAggregator(), a.onCreated)
	a.collectors[headerID] = collector
	a.track(header.Round, headerID)
	cached := a.pending[headerID]
	delete(a.pending, headerID)
	a.lock.Unlock()

	for _, vote := range cached {
		err := a.processVote(collector, vote)
		if err != nil {
			a.log.Debug().Err(err).
				Hex("header_id", logging.ID(headerID)).
				Hex("signer_id", logging.ID(vote.SignerID)).
				Msg("dropped cached vote")
		}
	}
	return nil
}

// AddVote validates the vote and adds it to the collector of its header.
// Votes for headers that are not known yet are cached, at most one per
// authority and header. Votes below the lowest retained round are dropped.
// Expected errors during normal operations:
//   - model.InvalidVoteError if the vote is invalid
//   - model.DuplicateVoteError if the signer already voted for the header
//   - model.DoubleVoteError if the signer voted for another header of the
//     same author and round
func (a *VoteAggregator) AddVote(vote *flow.Vote) error {
	a.lock.Lock()
	if vote.Round < a.lowestRound {
		a.lock.Unlock()
		return nil
	}
	collector, ok := a.collectors[vote.HeaderID]
	if !ok {
		a.cache(vote)
		a.lock.Unlock()
		return nil
	}
	a.lock.Unlock()

	return a.processVote(collector, vote)
}

func (a *VoteAggregator) processVote(collector *VoteCollector, vote *flow.Vote) error {
	signer, err := a.validator.ValidateVote(vote)
	if err != nil {
		return err
	}

	key := voteKey{round: vote.Round, authorID: collector.Header().AuthorID, signerID: vote.SignerID}
	a.lock.Lock()
	first, voted := a.votes[key]
	if !voted {
		a.votes[key] = vote
	}
	a.lock.Unlock()
	if voted && first.HeaderID != vote.HeaderID {
		return model.NewDoubleVoteErrorf(first, vote, "authority %x voted for headers %x and %x of author %x at round %d",
			vote.SignerID, first.HeaderID, vote.HeaderID, key.authorID, vote.Round)
	}

	created, err := collector.AddVote(vote, signer)
	if err != nil {
		return err
	}
	if created {
		a.log.Debug().
			Uint64("round", vote.Round).
			Hex("header_id", logging.ID(vote.HeaderID)).
			Hex("author_id", logging.ID(key.authorID)).
			Msg("certificate created")
	}
	return nil
}

// cache stores a vote for an unknown header. The caller must hold the lock.
func (a *VoteAggregator) cache(vote *flow.Vote) {
	cached := a.pending[vote.HeaderID]
	if len(cached) >= len(a.committee.Authorities()) {
		return
	}
	for _, other := range cached {
		if other.SignerID == vote.SignerID {
			return
		}
	}
	a.pending[vote.HeaderID] = append(cached, vote)
	a.track(vote.Round, vote.HeaderID)
}

// track records the header under its round for pruning. The caller must
// hold the lock.
func (a *VoteAggregator) track(round uint64, headerID flow.Identifier) {
	headers, ok := a.rounds[round]
	if !ok {
		headers = make(map[flow.Identifier]struct{})
		a.rounds[round] = headers
	}
	headers[headerID] = struct{}{}
}

// Collector returns the collector of the header, if the header is known.
func (a *VoteAggregator) Collector(headerID flow.Identifier) (*VoteCollector, bool) {
	a.lock.Lock()
	defer a.lock.Unlock()
	collector, ok := a.collectors[headerID]
	return collector, ok
}

// PruneBelow drops all collectors, cached votes and voting records of rounds
// below the given round. Pruning to a lower round than before is a no-op.
func (a *VoteAggregator) PruneBelow(round uint64) {
	a.lock.Lock()
	defer a.lock.Unlock()
	if round <= a.lowestRound {
		return
	}
	for r, headers := range a.rounds {
		if r >= round {
			continue
		}
		for headerID := range headers {
			delete(a.collectors, headerID)
			delete(a.pending, headerID)
		}
		delete(a.rounds, r)
	}
	for key := range a.votes {
		if key.round < round {
			delete(a.votes, key)
		}
	}
	a.lowestRound = round
}

// LowestRound returns the lowest round votes are accepted for.
func (a *VoteAggregator) LowestRound() uint64 {
	a.lock.Lock()
	defer a.lock.Unlock()
	return a.lowestRound
}
