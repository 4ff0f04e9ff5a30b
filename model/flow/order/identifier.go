package order

import (
	"bytes"

	"github.com/onflow/flow-narwhal/model/flow"
)

// IdentifierCanonical is a function for sorting IdentifierList into
// canonical order
func IdentifierCanonical(id1 flow.Identifier, id2 flow.Identifier) int {
	return bytes.Compare(id1[:], id2[:])
}

// IdentityCanonical orders identities by node ID. Leader election relies on
// every replica enumerating the committee in this order.
func IdentityCanonical(identity1 *flow.Identity, identity2 *flow.Identity) int {
	return IdentifierCanonical(identity1.NodeID, identity2.NodeID)
}

// IsIdentifierCanonical returns true if and only if the given identifiers are
// in canonical order.
func IsIdentifierCanonical(id1 flow.Identifier, id2 flow.Identifier) bool {
	return IdentifierCanonical(id1, id2) < 0
}
