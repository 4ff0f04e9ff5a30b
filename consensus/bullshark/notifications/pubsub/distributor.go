package pubsub

import (
	"sync"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

type OnSubDagCommittedConsumer = func(subDag *model.CommittedSubDag)
type OnEquivocationConsumer = func(first *flow.Certificate, conflicting *flow.Certificate)

// Distributor ingests the events of the ordering core and distributes them to
// subscribers. Subscribers are called in the order they were added, on the
// goroutine emitting the event.
type Distributor struct {
	subDagConsumers       []OnSubDagCommittedConsumer
	equivocationConsumers []OnEquivocationConsumer
	consumers             []bullshark.Consumer
	lock                  sync.RWMutex
}

var _ bullshark.Consumer = (*Distributor)(nil)

func NewDistributor() *Distributor {
	return &Distributor{
		subDagConsumers:       make([]OnSubDagCommittedConsumer, 0),
		equivocationConsumers: make([]OnEquivocationConsumer, 0),
	}
}

func (p *Distributor) AddOnSubDagCommittedConsumer(consumer OnSubDagCommittedConsumer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.subDagConsumers = append(p.subDagConsumers, consumer)
}

func (p *Distributor) AddOnEquivocationConsumer(consumer OnEquivocationConsumer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.equivocationConsumers = append(p.equivocationConsumers, consumer)
}

func (p *Distributor) AddConsumer(consumer bullshark.Consumer) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.consumers = append(p.consumers, consumer)
}

func (p *Distributor) OnCertificateInserted(cert *flow.Certificate) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.consumers {
		consumer.OnCertificateInserted(cert)
	}
}

func (p *Distributor) OnCommittedSubDag(subDag *model.CommittedSubDag) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.subDagConsumers {
		consumer(subDag)
	}
	for _, consumer := range p.consumers {
		consumer.OnCommittedSubDag(subDag)
	}
}

func (p *Distributor) OnEquivocationDetected(first *flow.Certificate, conflicting *flow.Certificate) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.equivocationConsumers {
		consumer(first, conflicting)
	}
	for _, consumer := range p.consumers {
		consumer.OnEquivocationDetected(first, conflicting)
	}
}

func (p *Distributor) OnInvalidCertificateDetected(err model.InvalidCertificateError) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.consumers {
		consumer.OnInvalidCertificateDetected(err)
	}
}

func (p *Distributor) OnLeaderSkipped(round uint64, leaderID flow.Identifier) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.consumers {
		consumer.OnLeaderSkipped(round, leaderID)
	}
}

func (p *Distributor) OnLeaderTimeout(round uint64, leaderID flow.Identifier) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.consumers {
		consumer.OnLeaderTimeout(round, leaderID)
	}
}

func (p *Distributor) OnPruned(gcRound uint64) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for _, consumer := range p.consumers {
		consumer.OnPruned(gcRound)
	}
}
