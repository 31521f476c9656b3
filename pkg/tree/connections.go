package tree

import (
	"fmt"
	"sort"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
)

// AddBlackboard inserts a blackboard into the tree.
func (t *Tree) AddBlackboard(bb *blackboard.Blackboard) error {
	if _, exists := t.blackboards[bb.ID()]; exists {
		return fmt.Errorf("blackboard %s already exists", bb.ID())
	}
	t.blackboards[bb.ID()] = bb
	return nil
}

// Blackboard returns the blackboard stored under id.
func (t *Tree) Blackboard(id domain.BlackboardID) (*blackboard.Blackboard, error) {
	bb, ok := t.blackboards[id]
	if !ok {
		return nil, fmt.Errorf("blackboard %s: %w", id, domain.ErrBlackboardNotFound)
	}
	return bb, nil
}

// RemoveBlackboard deletes a blackboard and prunes all connections to it.
// Affected nodes are re-setup so their handles drop the removed slots.
func (t *Tree) RemoveBlackboard(id domain.BlackboardID) error {
	if _, ok := t.blackboards[id]; !ok {
		return fmt.Errorf("blackboard %s: %w", id, domain.ErrBlackboardNotFound)
	}
	delete(t.blackboards, id)

	var affected []domain.NodeID
	kept := t.connections[:0]
	for _, c := range t.connections {
		if c.Blackboard.Blackboard == id {
			affected = append(affected, c.Node.Node)
			continue
		}
		kept = append(kept, c)
	}
	t.connections = kept

	for _, nodeID := range affected {
		if s, ok := t.nodes[nodeID]; ok {
			if err := s.node.SetupPorts(portResolver{t: t, id: nodeID}); err != nil {
				return fmt.Errorf("re-setup ports of node %s: %w", nodeID, err)
			}
		}
	}
	return nil
}

// BlackboardIDs returns all blackboard IDs in sorted (string) order.
func (t *Tree) BlackboardIDs() []domain.BlackboardID {
	ids := make([]domain.BlackboardID, 0, len(t.blackboards))
	for id := range t.blackboards {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// ConnectPortToBlackboard wires a node port to a blackboard slot and rebinds
// the node's handles. A previous connection of the same node port is
// replaced.
func (t *Tree) ConnectPortToBlackboard(np domain.NodePort, bp domain.BlackboardPort) error {
	s, ok := t.nodes[np.Node]
	if !ok {
		return fmt.Errorf("node %s: %w", np.Node, domain.ErrNodeNotFound)
	}
	if !declaresPort(s, np.Port) {
		return fmt.Errorf("node %s declares no port %q: %w", np.Node, np.Port, domain.ErrPortNotFound)
	}
	if _, ok := t.blackboards[bp.Blackboard]; !ok {
		return fmt.Errorf("blackboard %s: %w", bp.Blackboard, domain.ErrBlackboardNotFound)
	}

	previous, hadPrevious := t.connectionFor(np)
	t.removeConnection(np)
	t.connections = append(t.connections, domain.PortConnection{Node: np, Blackboard: bp})

	if err := s.node.SetupPorts(portResolver{t: t, id: np.Node}); err != nil {
		// Put the previous connection back and rebind, so a failed type
		// check leaves connection records and node handles agreeing.
		t.removeConnection(np)
		if hadPrevious {
			t.connections = append(t.connections, previous)
		}
		// The restored set bound successfully before, so this cannot fail.
		_ = s.node.SetupPorts(portResolver{t: t, id: np.Node})
		return fmt.Errorf("setup ports of node %s: %w", np.Node, err)
	}
	return nil
}

func (t *Tree) connectionFor(np domain.NodePort) (domain.PortConnection, bool) {
	for _, c := range t.connections {
		if c.Node == np {
			return c, true
		}
	}
	return domain.PortConnection{}, false
}

// DisconnectPort removes the connection of a node port, if any, and rebinds
// the node's remaining handles.
func (t *Tree) DisconnectPort(np domain.NodePort) error {
	s, ok := t.nodes[np.Node]
	if !ok {
		return fmt.Errorf("node %s: %w", np.Node, domain.ErrNodeNotFound)
	}
	t.removeConnection(np)
	if err := s.node.SetupPorts(portResolver{t: t, id: np.Node}); err != nil {
		return fmt.Errorf("setup ports of node %s: %w", np.Node, err)
	}
	return nil
}

// Connections returns a copy of all port connections.
func (t *Tree) Connections() []domain.PortConnection {
	return append([]domain.PortConnection(nil), t.connections...)
}

// ConnectionsFor returns the connections attached to one blackboard, in
// stable order.
func (t *Tree) ConnectionsFor(id domain.BlackboardID) []domain.PortConnection {
	var out []domain.PortConnection
	for _, c := range t.connections {
		if c.Blackboard.Blackboard == id {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Node.Node != out[j].Node.Node {
			return out[i].Node.Node.String() < out[j].Node.Node.String()
		}
		return out[i].Node.Port < out[j].Node.Port
	})
	return out
}

func (t *Tree) removeConnection(np domain.NodePort) {
	kept := t.connections[:0]
	for _, c := range t.connections {
		if c.Node != np {
			kept = append(kept, c)
		}
	}
	t.connections = kept
}

func declaresPort(s *slot, name string) bool {
	for _, p := range s.node.Ports() {
		if p.Name == name {
			return true
		}
	}
	return false
}

// portResolver resolves a node's port names against the tree's connection
// set. It implements node.PortResolver.
type portResolver struct {
	t  *Tree
	id domain.NodeID
}

func (r portResolver) Resolve(portName string) (*blackboard.Blackboard, string, bool) {
	for _, c := range r.t.connections {
		if c.Node.Node == r.id && c.Node.Port == portName {
			bb, ok := r.t.blackboards[c.Blackboard.Blackboard]
			if !ok {
				return nil, "", false
			}
			return bb, c.Blackboard.Name, true
		}
	}
	return nil, "", false
}
