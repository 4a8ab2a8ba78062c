package state

import "time"

const (
	// INF is the cost of an unreachable destination
	INF = Cost(999)
)

var (
	InboxSize          = 128 // dispatch channel capacity of a node
	TraceBufferSize    = 64  // rounds buffered in a node's trace broadcaster
	DefaultQuietPeriod = 250 * time.Millisecond
	MonitorTick        = 25 * time.Millisecond
	SlowDispatch       = 4 * time.Millisecond
)

// debug toggles, bound to cli flags
var (
	DBG_log_tables         = false // print the routing tables after every round
	DBG_log_vector_changes = false // log every accepted vector change
	DBG_log_links          = false // log link deliveries
)
