package flow

import (
	"bytes"
	"fmt"

	"golang.org/x/exp/slices"
)

// Identity is an authority of the committee: a validator identity with a
// stake weight. The public key is opaque to the ordering core and only
// handed to signature verification.
type Identity struct {
	NodeID    Identifier
	Weight    uint64
	PublicKey []byte
}

// String returns a string representation of the identity.
func (iy Identity) String() string {
	return fmt.Sprintf("%s=%d", iy.NodeID.String(), iy.Weight)
}

// ID returns a unique identifier for the identity.
func (iy Identity) ID() Identifier {
	return iy.NodeID
}

// Checksum returns a checksum for the identity including mutable attributes.
func (iy Identity) Checksum() Identifier {
	return MakeID(iy)
}

// EqualTo checks if two identities are equal, including the public key.
func (iy *Identity) EqualTo(other *Identity) bool {
	if iy.NodeID != other.NodeID || iy.Weight != other.Weight {
		return false
	}
	return bytes.Equal(iy.PublicKey, other.PublicKey)
}

// IdentityFilter is a filter on identities.
type IdentityFilter func(*Identity) bool

// IdentityList is a list of nodes.
type IdentityList []*Identity

// Filter will apply a filter to the identity list.
func (il IdentityList) Filter(filter IdentityFilter) IdentityList {
	var dup IdentityList
	for _, identity := range il {
		if filter(identity) {
			dup = append(dup, identity)
		}
	}
	return dup
}

// Lookup converts the identity slice to a map using the NodeIDs as keys. This
// is useful when _repeatedly_ querying identities by their NodeIDs. The
// conversion from IdentityList to map incurs cost O(n), for n the number of
// identities.
func (il IdentityList) Lookup() map[Identifier]*Identity {
	lookup := make(map[Identifier]*Identity, len(il))
	for _, identity := range il {
		lookup[identity.NodeID] = identity
	}
	return lookup
}

// NodeIDs returns the NodeIDs of the nodes in the list.
func (il IdentityList) NodeIDs() IdentifierList {
	nodeIDs := make([]Identifier, 0, len(il))
	for _, id := range il {
		nodeIDs = append(nodeIDs, id.NodeID)
	}
	return nodeIDs
}

// ByNodeID gets a node from the list by node ID.
func (il IdentityList) ByNodeID(nodeID Identifier) (*Identity, bool) {
	for _, identity := range il {
		if identity.NodeID == nodeID {
			return identity, true
		}
	}
	return nil, false
}

// TotalWeight returns the total weight of all given identities.
func (il IdentityList) TotalWeight() uint64 {
	var total uint64
	for _, identity := range il {
		total += identity.Weight
	}
	return total
}

// Count returns the count of identities.
func (il IdentityList) Count() uint {
	return uint(len(il))
}

// Copy returns a copy of IdentityList. The resulting slice uses a different
// backing array, meaning appends and insert operations on either slice are
// guaranteed to only affect that slice. Identities are copied as well.
func (il IdentityList) Copy() IdentityList {
	dup := make(IdentityList, 0, len(il))
	for _, identity := range il {
		next := *identity
		next.PublicKey = slices.Clone(identity.PublicKey)
		dup = append(dup, &next)
	}
	return dup
}

// Sort returns a sorted copy of the IdentityList using the given comparison
// function.
func (il IdentityList) Sort(cmp func(*Identity, *Identity) int) IdentityList {
	dup := il.Copy()
	slices.SortFunc(dup, cmp)
	return dup
}

// EqualTo checks if the other list is the same, that it contains the same
// elements in the same order.
func (il IdentityList) EqualTo(other IdentityList) bool {
	if len(il) != len(other) {
		return false
	}
	for i, identity := range il {
		if !identity.EqualTo(other[i]) {
			return false
		}
	}
	return true
}
