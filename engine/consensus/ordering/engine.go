package ordering

import (
	"fmt"
	"sync"

	"github.com/gammazero/workerpool"
	"github.com/rs/zerolog"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/engine/common/fifoqueue"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/module"
	"github.com/onflow/flow-narwhal/module/component"
	"github.com/onflow/flow-narwhal/module/irrecoverable"
	"github.com/onflow/flow-narwhal/module/metrics"
	"github.com/onflow/flow-narwhal/utils/logging"
)

type inboundCertificate struct {
	originID flow.Identifier
	cert     *flow.Certificate
}

// Engine is a wrapper around `ordering.Core`. The Engine queues inbound
// certificates, validates them on a pool of workers and hands them to the
// core in arrival order from a single worker routine.
// `ordering.Core` implements the actual ordering logic.
type Engine struct {
	log             zerolog.Logger
	config          Config
	engineMetrics   module.EngineMetrics
	validator       bullshark.Validator
	notifier        bullshark.Consumer
	core            *Core
	pool            *workerpool.WorkerPool
	inbound         *fifoqueue.FifoQueue[inboundCertificate] // queues certificates awaiting validation
	inboundNotifier module.Notifier

	cm *component.ComponentManager
	component.Component
}

var _ module.CertificateSink = (*Engine)(nil)

func NewEngine(
	log zerolog.Logger,
	config Config,
	engineMetrics module.EngineMetrics,
	validator bullshark.Validator,
	notifier bullshark.Consumer,
	core *Core,
) (*Engine, error) {
	err := config.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid ordering engine config: %w", err)
	}

	inbound, err := fifoqueue.NewFifoQueue(
		fifoqueue.WithCapacity[inboundCertificate](config.InboundQueueCapacity),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create queue for inbound certificates: %w", err)
	}

	eng := &Engine{
		log:             log.With().Str("ordering", "engine").Logger(),
		config:          config,
		engineMetrics:   engineMetrics,
		validator:       validator,
		notifier:        notifier,
		core:            core,
		pool:            workerpool.New(config.ValidationWorkers),
		inbound:         inbound,
		inboundNotifier: module.NewNotifier(),
	}

	eng.cm = component.NewComponentManagerBuilder().
		AddWorker(eng.processCertificatesLoop).
		Build()
	eng.Component = eng.cm

	return eng, nil
}

// OnCertificate queues a certificate for validation and ordering. It never
// blocks; certificates exceeding the queue capacity are dropped.
func (e *Engine) OnCertificate(originID flow.Identifier, cert *flow.Certificate) {
	e.engineMetrics.MessageReceived(metrics.EngineOrdering, metrics.MessageCertificate)
	if e.inbound.Push(inboundCertificate{originID: originID, cert: cert}) {
		e.inboundNotifier.Notify()
	} else {
		e.engineMetrics.InboundMessageDropped(metrics.EngineOrdering, metrics.MessageCertificate)
	}
}

// processCertificatesLoop is the single worker routine feeding the core.
func (e *Engine) processCertificatesLoop(ctx irrecoverable.SignalerContext, ready component.ReadyFunc) {
	defer e.pool.Stop()
	ready()

	doneSignal := ctx.Done()
	newMessageSignal := e.inboundNotifier.Channel()
	for {
		select {
		case <-doneSignal:
			return
		case <-newMessageSignal:
			err := e.processQueuedCertificates(doneSignal)
			if err != nil {
				ctx.Throw(err)
			}
		}
	}
}

// processQueuedCertificates drains the inbound queue in batches. Each batch
// is validated in parallel and then processed by the core one certificate at
// a time, in the order the certificates were received.
// No errors are expected during normal operation. All returned exceptions
// are potential symptoms of internal state corruption and should be fatal.
func (e *Engine) processQueuedCertificates(doneSignal <-chan struct{}) error {
	for {
		select {
		case <-doneSignal:
			return nil
		default:
		}

		batch := e.nextBatch()
		if len(batch) == 0 {
			return nil
		}

		results := e.validate(batch)
		for i, in := range batch {
			err := e.handleValidationResult(in, results[i])
			if err != nil {
				return err
			}
			e.engineMetrics.MessageHandled(metrics.EngineOrdering, metrics.MessageCertificate)
		}
	}
}

// nextBatch pops up to one certificate per validation worker. Certificates
// known to the core are skipped without validating them again.
func (e *Engine) nextBatch() []inboundCertificate {
	batch := make([]inboundCertificate, 0, e.config.ValidationWorkers)
	for len(batch) < e.config.ValidationWorkers {
		in, ok := e.inbound.Pop()
		if !ok {
			break
		}
		if e.core.IsKnown(in.cert) {
			e.engineMetrics.MessageHandled(metrics.EngineOrdering, metrics.MessageCertificate)
			continue
		}
		batch = append(batch, in)
	}
	return batch
}

// validate checks the certificates of the batch on the worker pool and
// returns the validation error of each.
func (e *Engine) validate(batch []inboundCertificate) []error {
	results := make([]error, len(batch))
	var wg sync.WaitGroup
	wg.Add(len(batch))
	for i := range batch {
		i := i
		e.pool.Submit(func() {
			defer wg.Done()
			results[i] = e.validator.ValidateCertificate(batch[i].cert)
		})
	}
	wg.Wait()
	return results
}

func (e *Engine) handleValidationResult(in inboundCertificate, validationErr error) error {
	if validationErr == nil {
		return e.core.OnCertificate(in.originID, in.cert)
	}
	if invalid, ok := model.AsInvalidCertificateError(validationErr); ok {
		e.log.Warn().
			Err(validationErr).
			Hex("origin_id", logging.ID(in.originID)).
			Hex("certificate_id", logging.Entity(in.cert)).
			Uint64("round", in.cert.Round()).
			Msg("dropping invalid certificate")
		e.notifier.OnInvalidCertificateDetected(*invalid)
		return nil
	}
	return fmt.Errorf("could not validate certificate %x: %w", in.cert.ID(), validationErr)
}
