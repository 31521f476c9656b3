package node

import (
	"context"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
)

// RunContext is the narrow interface a node uses to invoke its children
// without seeing tree storage. Implementations may intercept every recursive
// call, e.g. to record a per-node status trace.
type RunContext interface {
	// Children returns the number of children attached to the node.
	Children() int

	// RunChild ticks the i-th child and returns its status.
	RunChild(ctx context.Context, i int) (domain.ExecutionStatus, error)
}

// PortResolver maps a node's declared port names to the blackboard slot each
// is connected to. The slot name may differ from the port name. A port
// without a connection resolves to false.
type PortResolver interface {
	Resolve(portName string) (bb *blackboard.Blackboard, slot string, ok bool)
}

// Node is the capability interface every behavior-tree node implements.
// Hosts supply concrete nodes (I/O, hardware access, timers); the runtime
// needs nothing beyond this contract to tick, wire, and persist them.
type Node interface {
	// Tick runs one step of the node's logic. Composites and decorators
	// recurse into children through rc; leaves ignore it. Ticks are expected
	// to be non-blocking and return StatusRunning rather than wait.
	Tick(ctx context.Context, rc RunContext) (domain.ExecutionStatus, error)

	// Ports returns the ports this node declares. May be empty.
	Ports() []domain.Port

	// SetupPorts (re)binds the node's typed port handles against the
	// blackboards the resolver yields. Called whenever the node's
	// connections change.
	SetupPorts(r PortResolver) error

	// Config returns the node's configuration object, or nil if the node
	// has none.
	Config() any

	// SetConfig replaces the configuration. Implementations type-assert
	// against their concrete config type and return an error on mismatch.
	SetConfig(cfg any) error

	// NodeType returns the stable string tag identifying this node kind;
	// it is the registry key used by factories and converters.
	NodeType() string

	// Reset clears any internal tick state (baselines, counters) so the
	// node behaves as freshly created on the next tick.
	Reset()
}

// DirectoryAware is an optional capability for nodes that resolve files
// relative to the tree's working directory.
type DirectoryAware interface {
	SetDirectory(dir string)
}
