package flow

// Header is an authority's proposal for a round. It references batches of
// data by digest and the certificates of round-1 the author has observed.
// Round 0 headers have no parents.
type Header struct {
	Epoch          uint64
	Round          uint64
	AuthorID       Identifier
	PayloadDigests IdentifierList
	ParentIDs      IdentifierList
}

// encodableHeader omits empty lists so that a header with nil and a header
// with empty lists share the same digest.
type encodableHeader struct {
	Epoch          uint64
	Round          uint64
	AuthorID       Identifier
	PayloadDigests IdentifierList `cbor:",omitempty"`
	ParentIDs      IdentifierList `cbor:",omitempty"`
}

// ID returns the content digest of the header.
func (h Header) ID() Identifier {
	return MakeID(encodableHeader(h))
}

// IsGenesis returns whether the header is part of the genesis round.
func (h Header) IsGenesis() bool {
	return h.Round == 0
}
