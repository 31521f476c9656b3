package support

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/tree"
)

// VersionV1 is the current (and only) tree document schema version.
const VersionV1 = 1

// Document is the versioned on-disk and on-wire representation of a whole
// tree, including its blackboards and port connections.
type Document struct {
	Version int    `json:"version"`
	Tree    TreeV1 `json:"tree"`
}

// TreeV1 is the schema-V1 tree layout. Records are kept in sorted-by-ID
// order so that serialization is deterministic and the round-trip invariant
// is byte-exact.
type TreeV1 struct {
	Nodes       []NodeRecord       `json:"nodes"`
	Blackboards []BlackboardRecord `json:"blackboards"`
	Roots       []domain.NodeID    `json:"roots"`
}

// NodeRecord persists one node: identity, kind, optional config, ordered
// children.
type NodeRecord struct {
	ID       domain.NodeID            `json:"id"`
	NodeType string                   `json:"node_type"`
	Config   *domain.SerializedConfig `json:"config,omitempty"`
	Children []domain.NodeID          `json:"children,omitempty"`
}

// BlackboardRecord persists one blackboard: identity, typed values, and the
// connections attached to it.
type BlackboardRecord struct {
	ID          domain.BlackboardID               `json:"id"`
	Values      map[string]domain.SerializedValue `json:"values"`
	Connections []ConnectionRecord                `json:"connections,omitempty"`
}

// ConnectionRecord persists one port connection from the blackboard's side.
type ConnectionRecord struct {
	Node domain.NodeID `json:"node"`
	Port string        `json:"port"`
	Name string        `json:"name"`
}

// SerializeTree walks the tree and emits its V1 document. Every node kind
// with a config converter must be registered, as must the dynamic type of
// every blackboard value.
func (s *Support) SerializeTree(t *tree.Tree) (*Document, error) {
	doc := &Document{Version: VersionV1}

	for _, id := range t.NodeIDs() {
		n, err := t.Node(id)
		if err != nil {
			return nil, err
		}
		record := NodeRecord{
			ID:       id,
			NodeType: n.NodeType(),
			Children: t.Children(id),
		}
		if cfg := n.Config(); cfg != nil && s.hasConfig(n.NodeType()) {
			sc, err := s.SerializeConfig(n.NodeType(), cfg)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", id, err)
			}
			record.Config = sc
		}
		doc.Tree.Nodes = append(doc.Tree.Nodes, record)
	}

	for _, id := range t.BlackboardIDs() {
		bb, err := t.Blackboard(id)
		if err != nil {
			return nil, err
		}
		record := BlackboardRecord{
			ID:     id,
			Values: make(map[string]domain.SerializedValue),
		}
		for name, value := range bb.Snapshot() {
			sv, err := s.SerializeValue(value)
			if err != nil {
				return nil, fmt.Errorf("blackboard %s slot %q: %w", id, name, err)
			}
			record.Values[name] = *sv
		}
		for _, c := range t.ConnectionsFor(id) {
			record.Connections = append(record.Connections, ConnectionRecord{
				Node: c.Node.Node,
				Port: c.Node.Port,
				Name: c.Blackboard.Name,
			})
		}
		doc.Tree.Blackboards = append(doc.Tree.Blackboards, record)
	}

	doc.Tree.Roots = t.Roots()
	return doc, nil
}

// DeserializeTree builds a fresh tree from a V1 document. Blackboard values
// are restored before connections so that input ports find their slots.
func (s *Support) DeserializeTree(doc *Document) (*tree.Tree, error) {
	if doc.Version != VersionV1 {
		return nil, fmt.Errorf("unsupported tree document version %d", doc.Version)
	}

	t := tree.New()

	for _, record := range doc.Tree.Nodes {
		n, err := s.CreateNode(record.NodeType)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", record.ID, err)
		}
		if record.Config != nil {
			cfg, err := s.DeserializeConfig(*record.Config)
			if err != nil {
				return nil, fmt.Errorf("node %s: %w", record.ID, err)
			}
			if err := n.SetConfig(cfg); err != nil {
				return nil, fmt.Errorf("node %s: %w", record.ID, err)
			}
		}
		if err := t.AddNode(record.ID, n); err != nil {
			return nil, err
		}
	}

	for _, record := range doc.Tree.Nodes {
		if len(record.Children) == 0 {
			continue
		}
		if err := t.SetChildren(record.ID, record.Children); err != nil {
			return nil, fmt.Errorf("node %s: %w", record.ID, err)
		}
	}

	for _, record := range doc.Tree.Blackboards {
		bb := blackboard.New(record.ID)
		for name, sv := range record.Values {
			value, err := s.DeserializeValue(sv)
			if err != nil {
				return nil, fmt.Errorf("blackboard %s slot %q: %w", record.ID, name, err)
			}
			if err := bb.Define(name, value); err != nil {
				return nil, fmt.Errorf("blackboard %s slot %q: %w", record.ID, name, err)
			}
		}
		if err := t.AddBlackboard(bb); err != nil {
			return nil, err
		}
	}

	for _, record := range doc.Tree.Blackboards {
		for _, c := range record.Connections {
			np := domain.NodePort{Node: c.Node, Port: c.Port}
			bp := domain.BlackboardPort{Blackboard: record.ID, Name: c.Name}
			if err := t.ConnectPortToBlackboard(np, bp); err != nil {
				return nil, err
			}
		}
	}

	if len(doc.Tree.Roots) > 0 {
		if err := t.SetRoots(doc.Tree.Roots); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// EncodeDocument renders a document as indented JSON. Output is
// deterministic: map keys are sorted by encoding/json and record slices are
// emitted in sorted-by-ID order.
func EncodeDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses a serialized tree document and checks its version.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode tree document: %w", err)
	}
	if doc.Version != VersionV1 {
		return nil, fmt.Errorf("unsupported tree document version %d", doc.Version)
	}
	return &doc, nil
}
