package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/onflow/flow-narwhal/module"
)

type EngineCollector struct {
	received       *prometheus.CounterVec
	handled        *prometheus.CounterVec
	inboundDropped *prometheus.CounterVec
}

var _ module.EngineMetrics = (*EngineCollector)(nil)

func NewEngineCollector(registerer prometheus.Registerer) *EngineCollector {
	factory := promauto.With(registerer)

	ec := &EngineCollector{

		received: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "messages_received_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemEngine,
			Help:      "the number of messages received by engines",
		}, []string{EngineLabel, LabelMessage}),

		handled: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "messages_handled_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemEngine,
			Help:      "the number of messages handled by engines",
		}, []string{EngineLabel, LabelMessage}),

		inboundDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name:      "inbound_messages_dropped_total",
			Namespace: namespaceNarwhal,
			Subsystem: subsystemEngine,
			Help:      "the number of inbound messages dropped by engines",
		}, []string{EngineLabel, LabelMessage}),
	}

	return ec
}

func (e *EngineCollector) MessageReceived(engine string, message string) {
	e.received.With(prometheus.Labels{EngineLabel: engine, LabelMessage: message}).Inc()
}

func (e *EngineCollector) MessageHandled(engine string, message string) {
	e.handled.With(prometheus.Labels{EngineLabel: engine, LabelMessage: message}).Inc()
}

func (e *EngineCollector) InboundMessageDropped(engine string, message string) {
	e.inboundDropped.With(prometheus.Labels{EngineLabel: engine, LabelMessage: message}).Inc()
}
