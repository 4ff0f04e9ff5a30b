package metrics

// Prometheus metric namespaces
const (
	namespaceNarwhal = "narwhal"
)

// Narwhal subsystems represent the components of the ordering core.
const (
	subsystemDAG     = "dag"
	subsystemOrderer = "orderer"
	subsystemEngine  = "engine"
	subsystemStorage = "storage"
	subsystemBadger  = "badger"
	subsystemPending = "pending"
	subsystemCache   = "cache"
)
