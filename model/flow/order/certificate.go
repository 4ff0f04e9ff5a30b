package order

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// CertificateCanonical is the fixed total order over certificates used to
// break ties between siblings when linearizing committed history: round
// ascending, then author ID ascending, then digest ascending.
func CertificateCanonical(cert1 *flow.Certificate, cert2 *flow.Certificate) int {
	switch {
	case cert1.Round() < cert2.Round():
		return -1
	case cert1.Round() > cert2.Round():
		return 1
	}
	if c := IdentifierCanonical(cert1.AuthorID(), cert2.AuthorID()); c != 0 {
		return c
	}
	return IdentifierCanonical(cert1.ID(), cert2.ID())
}
