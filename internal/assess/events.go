package assess

// EventType identifies a runner lifecycle event.
type EventType string

const (
	// EventRunStarted fires once after discovery, before any collection.
	EventRunStarted EventType = "run.started"
	// EventClusterStarted fires when a cluster's collection begins.
	EventClusterStarted EventType = "cluster.started"
	// EventClusterCompleted fires when a cluster was collected and analyzed.
	EventClusterCompleted EventType = "cluster.completed"
	// EventClusterFailed fires when a cluster's collection failed.
	EventClusterFailed EventType = "cluster.failed"
)

// Event is one runner lifecycle notification. Events are emitted from the
// collection goroutines, so handlers must be safe for concurrent use.
type Event struct {
	Type    EventType
	Cluster string
	Message string

	// Clusters carries the resolved assessment set on run.started.
	Clusters []string
}
