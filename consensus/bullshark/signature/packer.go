package signature

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v4"
	"golang.org/x/exp/slices"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/model/flow/order"
)

// Aggregator collects the vote signatures of one header. ECDSA signatures
// cannot be aggregated, so the signature data of a certificate is the list
// of individual signatures in the canonical order of the signers.
//
// Aggregator is NOT concurrency safe.
type Aggregator struct {
	sigs map[flow.Identifier][]byte
}

var _ bullshark.SignatureAggregator = (*Aggregator)(nil)

func NewAggregator() *Aggregator {
	return &Aggregator{
		sigs: make(map[flow.Identifier][]byte),
	}
}

// Add adds the signature of the signer. Adding a second signature for the
// same signer is an error.
func (a *Aggregator) Add(signerID flow.Identifier, sig []byte) error {
	if _, ok := a.sigs[signerID]; ok {
		return fmt.Errorf("signature of %x already added", signerID)
	}
	a.sigs[signerID] = slices.Clone(sig)
	return nil
}

// Aggregate returns the signers in canonical order and the packed signatures.
func (a *Aggregator) Aggregate() (flow.IdentifierList, []byte, error) {
	if len(a.sigs) == 0 {
		return nil, nil, fmt.Errorf("no signatures to aggregate")
	}
	signers := make(flow.IdentifierList, 0, len(a.sigs))
	for signerID := range a.sigs {
		signers = append(signers, signerID)
	}
	signers = signers.Sorted(order.IdentifierCanonical)

	sigs := make([][]byte, 0, len(signers))
	for _, signerID := range signers {
		sigs = append(sigs, a.sigs[signerID])
	}
	sigData, err := msgpack.Marshal(sigs)
	if err != nil {
		return nil, nil, fmt.Errorf("could not pack signatures: %w", err)
	}
	return signers, sigData, nil
}

// Unpack splits the signature data of a certificate into the individual
// signatures of its signers.
// Expected errors during normal operations:
//   - model.ErrInvalidFormat if the data is malformed or does not match the signer count
func Unpack(sigData []byte, signerCount int) ([][]byte, error) {
	var sigs [][]byte
	err := msgpack.Unmarshal(sigData, &sigs)
	if err != nil {
		return nil, fmt.Errorf("could not unpack signatures: %v: %w", err, model.ErrInvalidFormat)
	}
	if len(sigs) != signerCount {
		return nil, fmt.Errorf("signature data holds %d signatures for %d signers: %w", len(sigs), signerCount, model.ErrInvalidFormat)
	}
	return sigs, nil
}
