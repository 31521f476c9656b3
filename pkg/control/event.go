package control

import (
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/support"
)

// Event is the closed set of messages the loop emits back to clients.
type Event interface {
	isEvent()
	// Name returns the stable wire tag of the event.
	Name() string
}

// CommandResult reports the outcome of one command. It is always the first
// event a command produces; Error is empty on success.
type CommandResult struct {
	Command string `json:"command"`
	Error   string `json:"error,omitempty"`
}

// NodeSummary is the per-node slice of a TreeState.
type NodeSummary struct {
	ID       domain.NodeID   `json:"id"`
	NodeType string          `json:"node_type"`
	Children []domain.NodeID `json:"children,omitempty"`
}

// NodeInformation mirrors one node's identity, kind, and current config.
type NodeInformation struct {
	ID       domain.NodeID            `json:"id"`
	NodeType string                   `json:"node_type"`
	Config   *domain.SerializedConfig `json:"config,omitempty"`
}

// BlackboardInformation mirrors one blackboard: its typed values and the
// connections attached to it.
type BlackboardInformation struct {
	ID          domain.BlackboardID               `json:"id"`
	Values      map[string]domain.SerializedValue `json:"values"`
	Connections []domain.PortConnection           `json:"connections,omitempty"`
}

// TreeState is a topology snapshot: every node with its children, plus the
// declared roots.
type TreeState struct {
	Nodes []NodeSummary   `json:"nodes"`
	Roots []domain.NodeID `json:"roots,omitempty"`
}

// TreeConfig carries the full serialized tree document.
type TreeConfig struct {
	Config *support.Document `json:"config"`
}

// TreeRoots mirrors the declared root set.
type TreeRoots struct {
	Roots []domain.NodeID `json:"roots"`
}

// NodeStatus is one entry of an execution trace.
type NodeStatus struct {
	ID     domain.NodeID          `json:"id"`
	Status domain.ExecutionStatus `json:"status"`
}

// ExecutionResult reports one root tick: the root's final status (or error)
// and the flat per-node trace recorded during the recursion.
type ExecutionResult struct {
	Root   domain.NodeID          `json:"root"`
	Status domain.ExecutionStatus `json:"status"`
	Error  string                 `json:"error,omitempty"`
	Trace  []NodeStatus           `json:"trace,omitempty"`
}

func (CommandResult) isEvent()         {}
func (NodeInformation) isEvent()       {}
func (BlackboardInformation) isEvent() {}
func (TreeState) isEvent()             {}
func (TreeConfig) isEvent()            {}
func (TreeRoots) isEvent()             {}
func (ExecutionResult) isEvent()       {}

func (CommandResult) Name() string         { return "command_result" }
func (NodeInformation) Name() string       { return "node_information" }
func (BlackboardInformation) Name() string { return "blackboard_information" }
func (TreeState) Name() string             { return "tree_state" }
func (TreeConfig) Name() string            { return "tree_config" }
func (TreeRoots) Name() string             { return "tree_roots" }
func (ExecutionResult) Name() string       { return "execution_result" }
