package module

import (
	"github.com/onflow/flow-narwhal/model/flow"
)

// CertificateRequester fetches certificates from other authorities. The
// ordering engine hands it the digests of missing parents; fetched
// certificates are re-delivered through the engine's inbound queue.
type CertificateRequester interface {

	// RequestCertificates schedules a fetch of the given certificates. It
	// must not block and duplicate requests are expected.
	RequestCertificates(certificateIDs flow.IdentifierList)
}
