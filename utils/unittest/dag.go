package unittest

import (
	"fmt"

	"github.com/onflow/flow-narwhal/model/flow"
	"github.com/onflow/flow-narwhal/model/flow/order"
)

// DAGBuilder builds certificate DAGs round by round. Round 0 holds the
// genesis certificate of every authority. Certificates carry no payload and
// no signatures, which keeps the digests deterministic for a given committee.
type DAGBuilder struct {
	epoch       uint64
	authorities flow.IdentityList
	rounds      []map[flow.Identifier]*flow.Certificate
}

func NewDAGBuilder(epoch uint64, authorities flow.IdentityList) *DAGBuilder {
	genesis := make(map[flow.Identifier]*flow.Certificate, len(authorities))
	for _, cert := range flow.GenesisCertificates(epoch, authorities) {
		genesis[cert.AuthorID()] = cert
	}
	return &DAGBuilder{
		epoch:       epoch,
		authorities: authorities.Sort(order.IdentityCanonical),
		rounds:      []map[flow.Identifier]*flow.Certificate{genesis},
	}
}

// HighestRound returns the highest round built so far.
func (b *DAGBuilder) HighestRound() uint64 {
	return uint64(len(b.rounds) - 1)
}

// AddRound adds a round in which the given authors each cite the
// certificates of the given parent authors of the previous round. Nil
// authors means all authorities; nil parents means all certificates of the
// previous round.
func (b *DAGBuilder) AddRound(authors flow.IdentifierList, parents flow.IdentifierList) []*flow.Certificate {
	if authors == nil {
		authors = b.authorities.NodeIDs()
	}
	previous := b.rounds[len(b.rounds)-1]
	var parentIDs flow.IdentifierList
	if parents == nil {
		for _, cert := range b.sorted(previous) {
			parentIDs = append(parentIDs, cert.ID())
		}
	} else {
		for _, parent := range parents {
			cert, ok := previous[parent]
			if !ok {
				panic(fmt.Sprintf("authority %x has no certificate in round %d", parent, b.HighestRound()))
			}
			parentIDs = append(parentIDs, cert.ID())
		}
	}

	round := b.HighestRound() + 1
	certs := make(map[flow.Identifier]*flow.Certificate, len(authors))
	for _, author := range authors {
		certs[author] = b.Certificate(round, author, parentIDs)
	}
	b.rounds = append(b.rounds, certs)
	return b.sorted(certs)
}

// AddFullRounds adds n rounds in which every authority cites every
// certificate of the previous round.
func (b *DAGBuilder) AddFullRounds(n int) {
	for i := 0; i < n; i++ {
		b.AddRound(nil, nil)
	}
}

// AddCertificate adds a single certificate at the highest round or the one
// above it. It allows rounds in which authors cite different parents.
func (b *DAGBuilder) AddCertificate(cert *flow.Certificate) {
	switch round := cert.Round(); {
	case round == b.HighestRound()+1:
		b.rounds = append(b.rounds, map[flow.Identifier]*flow.Certificate{})
	case round != b.HighestRound():
		panic(fmt.Sprintf("cannot add certificate of round %d to DAG at round %d", round, b.HighestRound()))
	}
	b.rounds[len(b.rounds)-1][cert.AuthorID()] = cert
}

// Certificate creates a certificate without adding it to the DAG.
func (b *DAGBuilder) Certificate(round uint64, author flow.Identifier, parentIDs flow.IdentifierList) *flow.Certificate {
	return &flow.Certificate{
		Header: flow.Header{
			Epoch:     b.epoch,
			Round:     round,
			AuthorID:  author,
			ParentIDs: parentIDs.Copy(),
		},
		SignerIDs: b.authorities.NodeIDs(),
	}
}

// Equivocate returns a certificate of the same author and round as cert that
// has a different digest.
func (b *DAGBuilder) Equivocate(cert *flow.Certificate) *flow.Certificate {
	conflicting := *cert
	conflicting.Header.ParentIDs = cert.Header.ParentIDs.Copy()
	conflicting.Header.PayloadDigests = append(cert.Header.PayloadDigests.Copy(), IdentifierFixture())
	return &conflicting
}

// At returns the certificate of the author in the round, or nil.
func (b *DAGBuilder) At(round uint64, author flow.Identifier) *flow.Certificate {
	if round > b.HighestRound() {
		return nil
	}
	return b.rounds[round][author]
}

// Round returns the certificates of the round in canonical order.
func (b *DAGBuilder) Round(round uint64) []*flow.Certificate {
	if round > b.HighestRound() {
		return nil
	}
	return b.sorted(b.rounds[round])
}

// All returns all certificates in round order.
func (b *DAGBuilder) All() []*flow.Certificate {
	var all []*flow.Certificate
	for round := range b.rounds {
		all = append(all, b.Round(uint64(round))...)
	}
	return all
}

// From returns all certificates of rounds >= round, in round order.
func (b *DAGBuilder) From(round uint64) []*flow.Certificate {
	var certs []*flow.Certificate
	for r := round; r <= b.HighestRound(); r++ {
		certs = append(certs, b.Round(r)...)
	}
	return certs
}

func (b *DAGBuilder) sorted(certs map[flow.Identifier]*flow.Certificate) []*flow.Certificate {
	list := make([]*flow.Certificate, 0, len(certs))
	for _, identity := range b.authorities {
		if cert, ok := certs[identity.NodeID]; ok {
			list = append(list, cert)
		}
	}
	return list
}
