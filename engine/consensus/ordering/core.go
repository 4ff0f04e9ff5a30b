package ordering

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/consensus/bullshark/orderer"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/module/buffer"
	"github.com/onflow/flow-narwhal/module/counters"
	"github.com/onflow/flow-narwhal/utils/logging"
)

// Core contains the business logic of the ordering engine: it feeds validated
// certificates to the orderer, buffers certificates whose parents are still
// missing and re-processes them once the parents arrive.
// CAUTION: Core is NOT concurrency safe. The engine calls it from a single
// worker, which makes it the only writer of the DAG.
type Core struct {
	log       zerolog.Logger
	metrics   module.OrderingMetrics
	orderer   *orderer.Orderer
	pending   *buffer.PendingCertificates
	requester module.CertificateRequester
	// tracks the GC round the pending buffer was last pruned at
	gcRound counters.StrictMonotonousCounter
}

func NewCore(
	log zerolog.Logger,
	metrics module.OrderingMetrics,
	orderer *orderer.Orderer,
	pending *buffer.PendingCertificates,
	requester module.CertificateRequester,
) *Core {
	return &Core{
		log:       log.With().Str("ordering", "core").Logger(),
		metrics:   metrics,
		orderer:   orderer,
		pending:   pending,
		requester: requester,
		gcRound:   counters.NewMonotonousCounter(orderer.GCRound()),
	}
}

// IsKnown returns true if the certificate is already in the DAG, waiting in
// the pending buffer or below the GC round. Known certificates need no
// further validation.
func (c *Core) IsKnown(cert *flow.Certificate) bool {
	if cert.Round() < c.orderer.GCRound() {
		return true
	}
	certID := cert.ID()
	if c.orderer.DAG().Contains(certID) {
		return true
	}
	_, pending := c.pending.ByID(certID)
	return pending
}

// OnCertificate processes a validated certificate. If its parents are not
// all in the DAG, the certificate is buffered and the missing parents are
// requested. Once inserted, buffered descendants are processed as well.
// No errors are expected during normal operation. All returned exceptions
// are potential symptoms of internal state corruption and should be fatal.
func (c *Core) OnCertificate(originID flow.Identifier, cert *flow.Certificate) error {
	if c.IsKnown(cert) {
		return nil
	}

	queue := []*buffer.PendingCertificate{{OriginID: originID, Certificate: cert}}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]

		inserted, err := c.processCertificate(next.OriginID, next.Certificate)
		if err != nil {
			return err
		}
		if !inserted {
			continue
		}
		queue = append(queue, c.pending.ExtractChildren(next.Certificate.ID())...)
	}

	c.pruneBelowGCRound()
	c.metrics.PendingCertificates(c.pending.Size())
	return nil
}

// processCertificate hands a single certificate to the orderer and returns
// whether it was inserted into the DAG. Certificates that are stale,
// equivocating or break the DAG structure are dropped; the orderer has
// already reported them.
func (c *Core) processCertificate(originID flow.Identifier, cert *flow.Certificate) (bool, error) {
	log := c.log.With().
		Hex("origin_id", logging.ID(originID)).
		Hex("certificate_id", logging.Entity(cert)).
		Hex("author_id", logging.ID(cert.AuthorID())).
		Uint64("round", cert.Round()).
		Logger()

	_, err := c.orderer.ProcessCertificate(cert)
	if missing, ok := model.AsMissingParentsError(err); ok {
		c.cachePending(log, originID, cert, missing.Missing)
		return false, nil
	}
	if model.IsStaleCertificateError(err) {
		log.Debug().Msg("dropping certificate below the GC round")
		return false, nil
	}
	if model.IsEquivocationError(err) {
		return false, nil
	}
	if model.IsInvalidCertificateError(err) {
		log.Warn().Err(err).Msg("dropping invalid certificate")
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("could not process certificate %x: %w", cert.ID(), err)
	}

	log.Debug().Msg("certificate processed")
	return true, nil
}

// cachePending buffers the certificate and requests those missing parents
// that are not waiting in the buffer themselves.
func (c *Core) cachePending(log zerolog.Logger, originID flow.Identifier, cert *flow.Certificate, missing flow.IdentifierList) {
	added := c.pending.Add(originID, cert, missing)
	if !added {
		log.Debug().Uint("pending", c.pending.Size()).Msg("pending buffer rejected certificate")
		return
	}

	request := make(flow.IdentifierList, 0, len(missing))
	for _, parentID := range missing {
		if _, pending := c.pending.ByID(parentID); pending {
			continue
		}
		request = append(request, parentID)
	}
	log.Debug().
		Int("missing", len(missing)).
		Strs("requested", logging.IDs(request)).
		Msg("certificate cached until parents arrive")
	if len(request) > 0 {
		c.requester.RequestCertificates(request)
	}
}

// pruneBelowGCRound drops buffered certificates below the GC round of the
// orderer. They can never be inserted any more.
func (c *Core) pruneBelowGCRound() {
	gcRound := c.orderer.GCRound()
	if !c.gcRound.Set(gcRound) {
		return
	}
	pruned := c.pending.PruneBelow(gcRound)
	if pruned > 0 {
		c.log.Debug().
			Uint64("gc_round", gcRound).
			Int("pruned", pruned).
			Msg("pruned pending certificates")
	}
}
