package flow

// EpochCommittee is the authority set of one epoch. It is immutable for the
// lifetime of the epoch. The random source seeds leader election.
type EpochCommittee struct {
	Epoch        uint64
	Authorities  IdentityList
	RandomSource []byte
}

// ID returns a digest over the full committee, weights and keys included.
func (c *EpochCommittee) ID() Identifier {
	return MakeID(c)
}
