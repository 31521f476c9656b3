package domain

import "github.com/google/uuid"

// NodeID uniquely identifies a node instance within a tree.
// IDs are stable across serialization so external references (persisted
// layouts, test fixtures) remain valid.
type NodeID struct {
	uuid.UUID
}

// BlackboardID uniquely identifies a blackboard within a tree.
type BlackboardID struct {
	uuid.UUID
}

// NewNodeID generates a random node identifier.
func NewNodeID() NodeID {
	return NodeID{uuid.New()}
}

// NewBlackboardID generates a random blackboard identifier.
func NewBlackboardID() BlackboardID {
	return BlackboardID{uuid.New()}
}

// ParseNodeID parses the string form of a node identifier.
func ParseNodeID(s string) (NodeID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return NodeID{}, err
	}
	return NodeID{id}, nil
}

// ParseBlackboardID parses the string form of a blackboard identifier.
func ParseBlackboardID(s string) (BlackboardID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return BlackboardID{}, err
	}
	return BlackboardID{id}, nil
}
