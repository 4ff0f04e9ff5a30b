package notifications

import (
	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

// NoopConsumer is an implementation of the notifications consumer that
// doesn't do anything.
type NoopConsumer struct {
	NoopCommitConsumer
	NoopEquivocationConsumer
}

var _ bullshark.Consumer = (*NoopConsumer)(nil)

func NewNoopConsumer() *NoopConsumer {
	nc := &NoopConsumer{}
	return nc
}

// no-op implementation of bullshark.Consumer(but not nested interfaces)

func (*NoopConsumer) OnCertificateInserted(*flow.Certificate) {}

func (*NoopConsumer) OnInvalidCertificateDetected(model.InvalidCertificateError) {}

func (*NoopConsumer) OnLeaderSkipped(uint64, flow.Identifier) {}

func (*NoopConsumer) OnLeaderTimeout(uint64, flow.Identifier) {}

func (*NoopConsumer) OnPruned(uint64) {}

// no-op implementation of bullshark.CommitConsumer

type NoopCommitConsumer struct{}

var _ bullshark.CommitConsumer = (*NoopCommitConsumer)(nil)

func (*NoopCommitConsumer) OnCommittedSubDag(*model.CommittedSubDag) {}

// no-op implementation of bullshark.EquivocationConsumer

type NoopEquivocationConsumer struct{}

var _ bullshark.EquivocationConsumer = (*NoopEquivocationConsumer)(nil)

func (*NoopEquivocationConsumer) OnEquivocationDetected(*flow.Certificate, *flow.Certificate) {}
