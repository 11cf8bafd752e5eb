package config

import "time"

// ClusterTuning holds the driver settings every cluster handle is opened
// with. They are fixed for all connections and not exposed as flags.
type ClusterTuning struct {
	// LocalDC is the datacenter preferred by the DC-aware round-robin
	// host selection policy. Default: datacenter1
	LocalDC string

	// ControlConnectionTimeout bounds establishing the control connection
	// and each node connection. Default: 100s
	ControlConnectionTimeout time.Duration

	// QueryTimeout is the client side query timeout; zero disables it.
	// Default: 0
	QueryTimeout time.Duration

	// ProtocolVersion is the native protocol version spoken to the nodes.
	// Default: 3
	ProtocolVersion int
}

// DefaultClusterTuning returns the tuning used for every cluster handle
func DefaultClusterTuning() ClusterTuning {
	return ClusterTuning{
		LocalDC:                  "datacenter1",
		ControlConnectionTimeout: 100 * time.Second,
		QueryTimeout:             0,
		ProtocolVersion:          3,
	}
}
