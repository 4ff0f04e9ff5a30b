package flow

import (
	"encoding/hex"
	"fmt"

	"github.com/onflow/flow-go/crypto/hash"
	"golang.org/x/exp/slices"

	"github.com/onflow/flow-narwhal/model/encoding"
)

const IdentifierLen = 32

// Identifier represents a 32-byte unique identifier for an entity.
type Identifier [IdentifierLen]byte

// ZeroID is the lowest value in the 32-byte ID space.
var ZeroID = Identifier{}

// HexStringToIdentifier converts a hex string to an identifier. The input
// must be 64 characters long and contain only valid hex characters.
func HexStringToIdentifier(hexString string) (Identifier, error) {
	var identifier Identifier
	i, err := hex.Decode(identifier[:], []byte(hexString))
	if err != nil {
		return identifier, err
	}
	if i != IdentifierLen {
		return identifier, fmt.Errorf("malformed input, expected %d bytes (%d characters), decoded %d", IdentifierLen, IdentifierLen*2, i)
	}
	return identifier, nil
}

// MustHexStringToIdentifier converts a hex string to an identifier and panics
// on malformed input.
func MustHexStringToIdentifier(hexString string) Identifier {
	id, err := HexStringToIdentifier(hexString)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the hex string representation of the identifier.
func (id Identifier) String() string {
	return hex.EncodeToString(id[:])
}

// TerminalString returns an abbreviated form of the identifier for logs.
func (id Identifier) TerminalString() string {
	return hex.EncodeToString(id[:4])
}

// IsZero returns true if the identifier is the zero identifier.
func (id Identifier) IsZero() bool {
	return id == ZeroID
}

func (id Identifier) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *Identifier) UnmarshalText(text []byte) error {
	var err error
	*id, err = HexStringToIdentifier(string(text))
	return err
}

// HashToID converts a hash into an identifier. Hashes shorter than 32 bytes
// are left-aligned.
func HashToID(hash []byte) Identifier {
	var id Identifier
	copy(id[:], hash)
	return id
}

// MakeID creates an ID from the canonical encoding of an entity, hashed with
// SHA3-256.
func MakeID(entity interface{}) Identifier {
	data := encoding.DefaultEncoder.MustEncode(entity)
	var id Identifier
	hash.ComputeSHA3_256((*[hash.HashLenSHA3_256]byte)(&id), data)
	return id
}

// IdentifierList defines a sortable list of identifiers
type IdentifierList []Identifier

// Len returns length of the IdentifierList in the number of stored identifiers.
func (il IdentifierList) Len() int {
	return len(il)
}

// Lookup converts the identifiers to a map.
func (il IdentifierList) Lookup() map[Identifier]struct{} {
	ids := make(map[Identifier]struct{}, len(il))
	for _, id := range il {
		ids[id] = struct{}{}
	}
	return ids
}

// Contains returns whether the list contains the given identifier.
func (il IdentifierList) Contains(target Identifier) bool {
	for _, id := range il {
		if id == target {
			return true
		}
	}
	return false
}

// Copy returns a copy of the IdentifierList. The resulting slice uses a
// different backing array, meaning appends and insert operations on either
// slice are guaranteed to only affect that slice.
func (il IdentifierList) Copy() IdentifierList {
	cpy := make(IdentifierList, 0, il.Len())
	return append(cpy, il...)
}

// Strings returns the hex representation of every identifier.
func (il IdentifierList) Strings() []string {
	list := make([]string, len(il))
	for i, id := range il {
		list[i] = id.String()
	}
	return list
}

// Sorted returns a sorted copy of the list, ordered by the given comparison
// function.
func (il IdentifierList) Sorted(cmp func(Identifier, Identifier) int) IdentifierList {
	dup := il.Copy()
	slices.SortFunc(dup, cmp)
	return dup
}
