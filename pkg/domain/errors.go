package domain

import "errors"

// ErrNodeNotFound is returned when a node ID is not present in the tree.
var ErrNodeNotFound = errors.New("node not found")

// ErrBlackboardNotFound is returned when a blackboard ID is not present in the tree.
var ErrBlackboardNotFound = errors.New("blackboard not found")

// ErrPortNotFound is returned when a port or slot name cannot be resolved.
var ErrPortNotFound = errors.New("port not found")

// ErrTypeMismatch is returned when a blackboard access or config downcast
// does not match the registered type. The existing value is left untouched.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrNodeBusy is returned when a node is ticked while it is already
// executing; this indicates a cycle in the children relation.
var ErrNodeBusy = errors.New("node is already executing")

// ErrSlotBusy is returned on reentrant access to a blackboard slot within
// a single tick.
var ErrSlotBusy = errors.New("blackboard slot is already being accessed")

// ErrUnknownNodeType is returned when no factory is registered for a node type.
var ErrUnknownNodeType = errors.New("unknown node type")

// ErrUnknownValueType is returned when no converter is registered for a value type.
var ErrUnknownValueType = errors.New("unknown value type")

// ErrInvalidPosition is returned for an out-of-range child insert position.
var ErrInvalidPosition = errors.New("invalid child position")

// ErrTreeNotFound is returned when a named tree document is absent from a store.
var ErrTreeNotFound = errors.New("tree not found")
