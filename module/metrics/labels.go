package metrics

const (
	EngineLabel   = "engine"
	LabelResource = "resource"
	LabelMessage  = "message"
)

const (
	EngineOrdering = "ordering"
)

const (
	ResourceCertificate      = "certificate"
	ResourceCertificateIndex = "certificate_index"
	ResourceCommittee        = "committee"
	ResourceCommit           = "commit"
)

const (
	MessageCertificate = "certificate"
)
