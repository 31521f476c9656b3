package domain

// PortDirection distinguishes reader ports from writer ports.
type PortDirection string

const (
	// DirectionInput marks a port the node reads from.
	DirectionInput PortDirection = "input"
	// DirectionOutput marks a port the node writes to.
	DirectionOutput PortDirection = "output"
)

// Port is a named, typed, directional data endpoint declared by a node.
// ValueType is the registered type name of the values moving through it
// (see support.RegisterValue).
type Port struct {
	Name      string        `json:"name"`
	Direction PortDirection `json:"direction"`
	ValueType string        `json:"value_type"`
}

// InputPort declares a reader port.
func InputPort(name, valueType string) Port {
	return Port{Name: name, Direction: DirectionInput, ValueType: valueType}
}

// OutputPort declares a writer port.
func OutputPort(name, valueType string) Port {
	return Port{Name: name, Direction: DirectionOutput, ValueType: valueType}
}

// NodePort binds a declared port to a specific node instance.
type NodePort struct {
	Node NodeID `json:"node"`
	Port string `json:"port"`
}

// BlackboardPort binds a slot name to a specific blackboard.
type BlackboardPort struct {
	Blackboard BlackboardID `json:"blackboard"`
	Name       string       `json:"name"`
}

// PortConnection pairs a node port with a blackboard slot. Connections are
// the sole mechanism for inter-node data flow; nodes never hold references
// to each other, only to blackboard slots.
type PortConnection struct {
	Node       NodePort       `json:"node_port"`
	Blackboard BlackboardPort `json:"blackboard_port"`
}
