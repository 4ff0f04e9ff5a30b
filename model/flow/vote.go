package flow

// Vote is a signature by one authority over another authority's header.
type Vote struct {
	HeaderID Identifier
	Round    uint64
	SignerID Identifier
	SigData  []byte
}

// ID returns the identifier of the vote.
func (v *Vote) ID() Identifier {
	return MakeID(v)
}
