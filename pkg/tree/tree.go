// Package tree holds the behavior-tree container: an arena of node instances
// addressed by ID, an ordered adjacency list, a set of blackboards, and the
// port connections wiring nodes to blackboard slots.
//
// A Tree is not safe for concurrent use. The intended model is a single
// worker goroutine owning the tree (see pkg/control.Loop); clients talk to
// that goroutine through message channels only.
package tree

import (
	"fmt"
	"sort"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/node"
)

// slot wraps a node instance with its reentrancy guard. The ticking flag is
// the runtime substitute for static cycle detection: a cycle in the children
// relation surfaces as a reentrant tick and fails.
type slot struct {
	node    node.Node
	ticking bool
}

// Tree owns all node instances, the children relation, the blackboards, and
// the port connections of one behavior tree.
type Tree struct {
	nodes       map[domain.NodeID]*slot
	children    map[domain.NodeID][]domain.NodeID
	blackboards map[domain.BlackboardID]*blackboard.Blackboard
	connections []domain.PortConnection
	roots       []domain.NodeID
	dir         string
}

// New creates an empty tree.
func New() *Tree {
	t := &Tree{}
	t.Clear()
	return t
}

// Clear removes every node, relation, blackboard, connection and root.
func (t *Tree) Clear() {
	t.nodes = make(map[domain.NodeID]*slot)
	t.children = make(map[domain.NodeID][]domain.NodeID)
	t.blackboards = make(map[domain.BlackboardID]*blackboard.Blackboard)
	t.connections = nil
	t.roots = nil
}

// SetDirectory sets the working directory hint handed to DirectoryAware
// nodes, including ones added later.
func (t *Tree) SetDirectory(dir string) {
	t.dir = dir
	for _, s := range t.nodes {
		if da, ok := s.node.(node.DirectoryAware); ok {
			da.SetDirectory(dir)
		}
	}
}

// AddNode inserts a node instance under the given ID.
func (t *Tree) AddNode(id domain.NodeID, n node.Node) error {
	if _, exists := t.nodes[id]; exists {
		return fmt.Errorf("node %s already exists", id)
	}
	if da, ok := n.(node.DirectoryAware); ok && t.dir != "" {
		da.SetDirectory(t.dir)
	}
	t.nodes[id] = &slot{node: n}
	return nil
}

// Node returns the node instance stored under id.
func (t *Tree) Node(id domain.NodeID) (node.Node, error) {
	s, ok := t.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, domain.ErrNodeNotFound)
	}
	return s.node, nil
}

// RemoveNode deletes a node and prunes every relation, connection, and root
// entry referencing it, keeping the tree internally consistent.
func (t *Tree) RemoveNode(id domain.NodeID) error {
	if _, ok := t.nodes[id]; !ok {
		return fmt.Errorf("node %s: %w", id, domain.ErrNodeNotFound)
	}
	delete(t.nodes, id)
	delete(t.children, id)

	for parent, kids := range t.children {
		t.children[parent] = removeAll(kids, id)
	}

	kept := t.connections[:0]
	for _, c := range t.connections {
		if c.Node.Node != id {
			kept = append(kept, c)
		}
	}
	t.connections = kept

	t.roots = removeAll(t.roots, id)
	return nil
}

// NodeIDs returns all node IDs in sorted (string) order, for deterministic
// iteration and serialization.
func (t *Tree) NodeIDs() []domain.NodeID {
	ids := make([]domain.NodeID, 0, len(t.nodes))
	for id := range t.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// AddRelation inserts child into parent's ordered child list at position.
// The insert position defines execution order for sequence/selector
// semantics.
func (t *Tree) AddRelation(parent domain.NodeID, position int, child domain.NodeID) error {
	if _, ok := t.nodes[parent]; !ok {
		return fmt.Errorf("parent %s: %w", parent, domain.ErrNodeNotFound)
	}
	if _, ok := t.nodes[child]; !ok {
		return fmt.Errorf("child %s: %w", child, domain.ErrNodeNotFound)
	}
	kids := t.children[parent]
	if position < 0 || position > len(kids) {
		return fmt.Errorf("position %d of %d children: %w", position, len(kids), domain.ErrInvalidPosition)
	}
	kids = append(kids, domain.NodeID{})
	copy(kids[position+1:], kids[position:])
	kids[position] = child
	t.children[parent] = kids
	return nil
}

// RemoveRelation removes every occurrence of child from parent's child list.
func (t *Tree) RemoveRelation(parent, child domain.NodeID) error {
	kids, ok := t.children[parent]
	if !ok {
		return fmt.Errorf("parent %s has no children: %w", parent, domain.ErrNodeNotFound)
	}
	next := removeAll(kids, child)
	if len(next) == len(kids) {
		return fmt.Errorf("node %s is not a child of %s: %w", child, parent, domain.ErrNodeNotFound)
	}
	t.children[parent] = next
	return nil
}

// SetChildren replaces parent's child list wholesale.
func (t *Tree) SetChildren(parent domain.NodeID, children []domain.NodeID) error {
	if _, ok := t.nodes[parent]; !ok {
		return fmt.Errorf("parent %s: %w", parent, domain.ErrNodeNotFound)
	}
	for _, child := range children {
		if _, ok := t.nodes[child]; !ok {
			return fmt.Errorf("child %s: %w", child, domain.ErrNodeNotFound)
		}
	}
	t.children[parent] = append([]domain.NodeID(nil), children...)
	return nil
}

// Children returns parent's ordered child list.
func (t *Tree) Children(parent domain.NodeID) []domain.NodeID {
	return append([]domain.NodeID(nil), t.children[parent]...)
}

// SetRoots declares which nodes the background loop ticks each cycle.
func (t *Tree) SetRoots(roots []domain.NodeID) error {
	for _, id := range roots {
		if _, ok := t.nodes[id]; !ok {
			return fmt.Errorf("root %s: %w", id, domain.ErrNodeNotFound)
		}
	}
	t.roots = append([]domain.NodeID(nil), roots...)
	return nil
}

// Roots returns the declared root nodes.
func (t *Tree) Roots() []domain.NodeID {
	return append([]domain.NodeID(nil), t.roots...)
}

func removeAll(ids []domain.NodeID, target domain.NodeID) []domain.NodeID {
	kept := ids[:0]
	for _, id := range ids {
		if id != target {
			kept = append(kept, id)
		}
	}
	return kept
}
