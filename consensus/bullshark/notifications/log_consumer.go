package notifications

import (
	"github.com/rs/zerolog"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/utils/logging"
)

// LogConsumer is an implementation of the notifications consumer that logs a
// message for each event.
type LogConsumer struct {
	log zerolog.Logger
}

var _ bullshark.Consumer = (*LogConsumer)(nil)

func NewLogConsumer(log zerolog.Logger) *LogConsumer {
	lc := &LogConsumer{
		log: log,
	}
	return lc
}

func (lc *LogConsumer) OnCertificateInserted(cert *flow.Certificate) {
	lc.log.Debug().
		Uint64("round", cert.Round()).
		Hex("certificate_id", logging.Entity(cert)).
		Hex("author_id", logging.ID(cert.AuthorID())).
		Int("parents", len(cert.ParentIDs())).
		Int("payload_digests", len(cert.Header.PayloadDigests)).
		Msg("certificate inserted")
}

func (lc *LogConsumer) OnCommittedSubDag(subDag *model.CommittedSubDag) {
	lc.log.Info().
		Uint64("index", subDag.Index).
		Uint64("leader_round", subDag.LeaderRound).
		Hex("leader_id", logging.Entity(subDag.Leader)).
		Int("certificates", len(subDag.Certificates)).
		Uints64("skipped_rounds", subDag.SkippedLeaderRounds).
		Msg("sub-dag committed")
}

func (lc *LogConsumer) OnEquivocationDetected(first *flow.Certificate, conflicting *flow.Certificate) {
	lc.log.Warn().
		Uint64("round", first.Round()).
		Hex("author_id", logging.ID(first.AuthorID())).
		Hex("first_id", logging.Entity(first)).
		Hex("conflicting_id", logging.Entity(conflicting)).
		Msg("equivocation detected")
}

func (lc *LogConsumer) OnInvalidCertificateDetected(err model.InvalidCertificateError) {
	lc.log.Warn().
		Uint64("round", err.Round).
		Hex("certificate_id", logging.ID(err.CertificateID)).
		Str("error", err.Err.Error()).
		Msg("invalid certificate detected")
}

func (lc *LogConsumer) OnLeaderSkipped(round uint64, leaderID flow.Identifier) {
	lc.log.Warn().
		Uint64("round", round).
		Hex("leader_id", logging.ID(leaderID)).
		Msg("leader skipped")
}

func (lc *LogConsumer) OnLeaderTimeout(round uint64, leaderID flow.Identifier) {
	lc.log.Warn().
		Uint64("round", round).
		Hex("leader_id", logging.ID(leaderID)).
		Msg("leader timed out")
}

func (lc *LogConsumer) OnPruned(gcRound uint64) {
	lc.log.Debug().
		Uint64("gc_round", gcRound).
		Msg("DAG pruned")
}
