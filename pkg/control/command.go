/*
Package control implements the command/event protocol that lets a separate
goroutine (or process, through an adapter) inspect and mutate a running tree
asynchronously.

Commands flow from a Client to the Loop that owns the tree; every command
yields an ordered list of events, beginning with a CommandResult. The unions
are sealed interfaces with an envelope wire codec (see wire.go), so any
transport that can move a tagged message can carry them; the in-process
channel pair in channel.go is the reference transport.
*/
package control

import (
	"time"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/support"
	"github.com/aretw0/canopy/pkg/tree"
)

// Command is the closed set of operations a client may apply to a tree.
type Command interface {
	isCommand()
	// Name returns the stable wire tag of the command.
	Name() string
}

// AddNode creates a node of a registered kind under a client-chosen ID.
type AddNode struct {
	ID       domain.NodeID `json:"id"`
	NodeType string        `json:"node_type"`
}

// RemoveNode deletes a node and prunes all relations and connections
// referencing it.
type RemoveNode struct {
	ID domain.NodeID `json:"id"`
}

// SetChildren replaces a node's ordered child list.
type SetChildren struct {
	Parent   domain.NodeID   `json:"parent"`
	Children []domain.NodeID `json:"children"`
}

// AddBlackboard creates an empty blackboard under a client-chosen ID.
type AddBlackboard struct {
	ID domain.BlackboardID `json:"id"`
}

// RemoveBlackboard deletes a blackboard and prunes its connections.
type RemoveBlackboard struct {
	ID domain.BlackboardID `json:"id"`
}

// SetConfig replaces a node's configuration from its tagged wire form.
type SetConfig struct {
	ID     domain.NodeID           `json:"id"`
	Config domain.SerializedConfig `json:"config"`
}

// PortDisconnectConnect disconnects a node port and, when Target is set,
// connects it to a new blackboard slot in the same step.
type PortDisconnectConnect struct {
	Port   domain.NodePort        `json:"port"`
	Target *domain.BlackboardPort `json:"target,omitempty"`
}

// SetRoots declares which nodes the loop ticks each cycle.
type SetRoots struct {
	Roots []domain.NodeID `json:"roots"`
}

// RunSettings reconfigures the loop; the interval takes effect on the next
// sleep.
type RunSettings struct {
	Interval time.Duration `json:"interval"`
	RunRoots bool          `json:"run_roots"`
}

// Clear empties the tree entirely.
type Clear struct{}

// RequestTreeConfig asks for the full serialized tree.
type RequestTreeConfig struct{}

// LoadTreeConfig replaces the tree with the one described by the document.
type LoadTreeConfig struct {
	Config *support.Document `json:"config"`
}

// Callback runs a function directly against the tree on the loop goroutine.
// Test-only; it has no wire representation.
type Callback struct {
	Fn func(t *tree.Tree) error `json:"-"`
}

func (AddNode) isCommand()               {}
func (RemoveNode) isCommand()            {}
func (SetChildren) isCommand()           {}
func (AddBlackboard) isCommand()         {}
func (RemoveBlackboard) isCommand()      {}
func (SetConfig) isCommand()             {}
func (PortDisconnectConnect) isCommand() {}
func (SetRoots) isCommand()              {}
func (RunSettings) isCommand()           {}
func (Clear) isCommand()                 {}
func (RequestTreeConfig) isCommand()     {}
func (LoadTreeConfig) isCommand()        {}
func (Callback) isCommand()              {}

func (AddNode) Name() string               { return "add_node" }
func (RemoveNode) Name() string            { return "remove_node" }
func (SetChildren) Name() string           { return "set_children" }
func (AddBlackboard) Name() string         { return "add_blackboard" }
func (RemoveBlackboard) Name() string      { return "remove_blackboard" }
func (SetConfig) Name() string             { return "set_config" }
func (PortDisconnectConnect) Name() string { return "port_disconnect_connect" }
func (SetRoots) Name() string              { return "set_roots" }
func (RunSettings) Name() string           { return "run_settings" }
func (Clear) Name() string                 { return "clear" }
func (RequestTreeConfig) Name() string     { return "request_tree_config" }
func (LoadTreeConfig) Name() string        { return "load_tree_config" }
func (Callback) Name() string              { return "callback" }
