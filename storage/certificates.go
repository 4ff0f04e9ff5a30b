package storage

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// CertificatesReader is read-only access to stored certificates. It is safe
// for concurrent use by validation workers.
type CertificatesReader interface {

	// ByID returns the certificate with the given digest.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if no certificate with the given digest is stored
	ByID(certID flow.Identifier) (*flow.Certificate, error)

	// Exists returns whether a certificate with the given digest is stored.
	Exists(certID flow.Identifier) (bool, error)

	// ByRoundAuthority returns the certificate of the authority at the given round.
	// Expected errors during normal operations:
	//   - storage.ErrNotFound if the authority has no certificate at that round
	ByRoundAuthority(epoch uint64, round uint64, authorityID flow.Identifier) (*flow.Certificate, error)

	// ByRound returns all certificates of the round, ordered by author ID.
	// A round without certificates yields an empty slice.
	ByRound(epoch uint64, round uint64) ([]*flow.Certificate, error)

	// ByRoundRange returns all certificates with rounds in [from, to], ordered
	// by round and then by author ID.
	ByRoundRange(epoch uint64, from uint64, to uint64) ([]*flow.Certificate, error)
}

// Certificates is the append-only certificate store, indexed by digest and by
// (epoch, round, authority).
type Certificates interface {
	CertificatesReader

	// Store persists the certificate and indexes it. Storing the same
	// certificate again is a no-op.
	// Expected errors during normal operations:
	//   - storage.ErrDataMismatch if a different certificate is already
	//     indexed for the same (epoch, round, authority)
	Store(cert *flow.Certificate) error
}
