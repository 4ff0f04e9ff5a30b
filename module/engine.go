package module

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// CertificateSink is the inbound side of the ordering engine: certificates
// from any source, in any order, duplicates included.
type CertificateSink interface {

	// OnCertificate queues a certificate for processing. It must not block.
	OnCertificate(originID flow.Identifier, cert *flow.Certificate)
}
