package encoding

// List of domain separation tags for protocol signatures and randomness.
//
// Each protocol-level signature involves hashing an entity. To prevent
// domain malleability, the hashing process includes a domain tag that
// specifies the type of the signed object.

func tag(domain string) string {
	return protocolPrefix + domain
}

// protocol version and prefix
const protocolPrefix = "NARWHAL-V0.1_"

// HeaderVoteTag is used for votes endorsing another authority's header. A
// certificate carries the votes of its signers, so it is verified against
// the same tag.
var HeaderVoteTag = tag("Header-Vote")

// LeaderSelectionCustomizer is the PRG customizer prefix for leader election.
// It is combined with the 8-byte round and has to fit, together with the
// round, into the 12 bytes a ChaCha20 customizer allows.
var LeaderSelectionCustomizer = [4]byte{'l', 'd', 'r', 0}
