package voteaggregator

import (
	"fmt"
	"sync"

	"github.com/onflow/flow-narwhal/consensus/bullshark"
	"github.com/onflow/flow-narwhal/consensus/bullshark/model"
	"github.com/onflow/flow-narwhal/model/flow"
)

// OnCertificateCreated is called once per header when the accumulated votes
// reach quorum weight.
type OnCertificateCreated func(cert *flow.Certificate)

// VoteCollector accumulates the votes for a single header. Votes must be
// validated before they are added. The certificate is built exactly once;
// votes arriving after that are accepted and ignored.
//
// VoteCollector is concurrency safe.
type VoteCollector struct {
	lock       sync.Mutex
	header     *flow.Header
	headerID   flow.Identifier
	quorum     uint64
	aggregator bullshark.SignatureAggregator
	onCreated  OnCertificateCreated
	votes      map[flow.Identifier]*flow.Vote
	weight     uint64
	cert       *flow.Certificate
}

func NewVoteCollector(
	header *flow.Header,
	quorum uint64,
	aggregator bullshark.SignatureAggregator,
	onCreated OnCertificateCreated,
) *VoteCollector {
	return &VoteCollector{
		header:     header,
		headerID:   header.ID(),
		quorum:     quorum,
		aggregator: aggregator,
		onCreated:  onCreated,
		votes:      make(map[flow.Identifier]*flow.Vote),
	}
}

// Header returns the header the collector accumulates votes for.
func (c *VoteCollector) Header() *flow.Header {
	return c.header
}

// Certificate returns the certificate, if it has been built.
func (c *VoteCollector) Certificate() (*flow.Certificate, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.cert, c.cert != nil
}

// Weight returns the weight of the votes accumulated so far.
func (c *VoteCollector) Weight() uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.weight
}

// AddVote adds the validated vote of the signer. It returns true if this
// vote completed the certificate.
// Expected errors during normal operations:
//   - model.InvalidVoteError if the vote is for another header
//   - model.DuplicateVoteError if the signer already voted for the header
func (c *VoteCollector) AddVote(vote *flow.Vote, signer *flow.Identity) (bool, error) {
	if vote.HeaderID != c.headerID || vote.Round != c.header.Round {
		return false, model.NewInvalidVoteErrorf(vote, "vote for header %x at round %d added to collector of header %x at round %d",
			vote.HeaderID, vote.Round, c.headerID, c.header.Round)
	}

	cert, err := c.addVote(vote, signer)
	if err != nil || cert == nil {
		return false, err
	}
	c.onCreated(cert)
	return true, nil
}

func (c *VoteCollector) addVote(vote *flow.Vote, signer *flow.Identity) (*flow.Certificate, error) {
	c.lock.Lock()
	defer c.lock.Unlock()

	if _, ok := c.votes[vote.SignerID]; ok {
		return nil, model.DuplicateVoteError{Vote: vote}
	}
	c.votes[vote.SignerID] = vote
	if c.cert != nil {
		return nil, nil
	}

	err := c.aggregator.Add(vote.SignerID, vote.SigData)
	if err != nil {
		return nil, fmt.Errorf("could not add signature of %x: %w", vote.SignerID, err)
	}
	c.weight += signer.Weight
	if c.weight < c.quorum {
		return nil, nil
	}

	signerIDs, sigData, err := c.aggregator.Aggregate()
	if err != nil {
		return nil, fmt.Errorf("could not aggregate signatures for header %x: %w", c.headerID, err)
	}
	c.cert = &flow.Certificate{
		Header:    *c.header,
		SignerIDs: signerIDs,
		SigData:   sigData,
	}
	return c.cert, nil
}
