package flow

import (
	"fmt"
)

// Certificate is a header together with the aggregated signatures of a
// quorum of the committee that voted for it. Certificates are the vertices
// of the DAG. Its parents are exactly the parents of its header.
type Certificate struct {
	Header    Header
	SignerIDs IdentifierList
	SigData   []byte
}

// certificateBody is the content the digest of a certificate covers. The
// signatures are left out: two certificates for the same header built from
// different sets of votes are the same vertex.
type certificateBody struct {
	HeaderID Identifier
	Round    uint64
	AuthorID Identifier
}

// ID returns the content digest of the certificate. It covers the header,
// round and author but not the signers, so certificates for the same header
// with different signer sets share the ID and are treated as duplicates, not
// equivocations.
func (c *Certificate) ID() Identifier {
	return MakeID(certificateBody{
		HeaderID: c.Header.ID(),
		Round:    c.Header.Round,
		AuthorID: c.Header.AuthorID,
	})
}

func (c *Certificate) Round() uint64 {
	return c.Header.Round
}

func (c *Certificate) AuthorID() Identifier {
	return c.Header.AuthorID
}

func (c *Certificate) ParentIDs() IdentifierList {
	return c.Header.ParentIDs
}

func (c *Certificate) Epoch() uint64 {
	return c.Header.Epoch
}

func (c *Certificate) String() string {
	return fmt.Sprintf("certificate(epoch=%d, round=%d, author=%s)", c.Header.Epoch, c.Header.Round, c.Header.AuthorID.TerminalString())
}

// GenesisCertificates returns the round 0 certificate of every authority of
// the committee. Genesis certificates have neither parents nor signatures and
// are identical on every replica.
func GenesisCertificates(epoch uint64, authorities IdentityList) []*Certificate {
	genesis := make([]*Certificate, 0, len(authorities))
	for _, authority := range authorities {
		genesis = append(genesis, &Certificate{
			Header: Header{
				Epoch:    epoch,
				Round:    0,
				AuthorID: authority.NodeID,
			},
		})
	}
	return genesis
}
