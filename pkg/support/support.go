/*
Package support holds the TreeSupport registries: node type tags mapped to
factories and config converters, and value types mapped to serialization
converters. A Support instance is explicit, constructed state passed in
wherever trees are created or persisted; there is no ambient global registry.

Converters are closures captured per concrete type at registration time, so
the core stays free of per-type branching: one entry point per type, checked
by downcast at the call site.
*/
package support

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/node"
)

// Factory creates a default instance of one node kind.
type Factory func() node.Node

// configCodec converts one concrete config type to and from its tagged JSON
// payload.
type configCodec struct {
	marshal   func(cfg any) (json.RawMessage, error)
	unmarshal func(data json.RawMessage) (any, error)
}

// valueCodec converts one storable value type.
type valueCodec struct {
	name      string
	typ       reflect.Type
	marshal   func(v any) (json.RawMessage, error)
	unmarshal func(data json.RawMessage) (any, error)
}

type nodeEntry struct {
	factory Factory
	config  *configCodec
}

// Support is the registry driving node creation and tree serialization.
type Support struct {
	mu           sync.RWMutex
	nodes        map[string]nodeEntry
	valuesByName map[string]*valueCodec
	valuesByType map[reflect.Type]*valueCodec
}

// New creates an empty registry.
func New() *Support {
	return &Support{
		nodes:        make(map[string]nodeEntry),
		valuesByName: make(map[string]*valueCodec),
		valuesByType: make(map[reflect.Type]*valueCodec),
	}
}

// RegisterNode registers a configless node kind. The type tag is taken from
// a throwaway instance's NodeType.
func RegisterNode[N node.Node](s *Support, newFn func() N) error {
	nodeType := newFn().NodeType()
	return s.register(nodeType, func() node.Node { return newFn() }, nil)
}

// RegisterNodeWithConfig registers a node kind whose configuration is the
// concrete type C. The converter downcasts against C at every call, failing
// when the call site's type does not match at runtime.
func RegisterNodeWithConfig[N node.Node, C any](s *Support, newFn func() N) error {
	nodeType := newFn().NodeType()
	codec := &configCodec{
		marshal: func(cfg any) (json.RawMessage, error) {
			switch v := cfg.(type) {
			case C:
				return json.Marshal(v)
			case *C:
				return json.Marshal(v)
			default:
				var want C
				return nil, fmt.Errorf("node type %q: config is %T, not %T: %w", nodeType, cfg, want, domain.ErrTypeMismatch)
			}
		},
		unmarshal: func(data json.RawMessage) (any, error) {
			var cfg C
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("node type %q: decode config: %w", nodeType, err)
			}
			return &cfg, nil
		},
	}
	return s.register(nodeType, func() node.Node { return newFn() }, codec)
}

// RegisterValue registers a storable value type under a stable name. T must
// round-trip through encoding/json.
func RegisterValue[T any](s *Support, name string) error {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	codec := &valueCodec{
		name: name,
		typ:  typ,
		marshal: func(v any) (json.RawMessage, error) {
			value, ok := v.(T)
			if !ok {
				return nil, fmt.Errorf("value type %q: value is %T: %w", name, v, domain.ErrTypeMismatch)
			}
			return json.Marshal(value)
		},
		unmarshal: func(data json.RawMessage) (any, error) {
			var value T
			if err := json.Unmarshal(data, &value); err != nil {
				return nil, fmt.Errorf("value type %q: decode: %w", name, err)
			}
			return value, nil
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.valuesByName[name]; exists {
		return fmt.Errorf("value type %q already registered", name)
	}
	if prev, exists := s.valuesByType[typ]; exists {
		return fmt.Errorf("type %s already registered as %q", typ, prev.name)
	}
	s.valuesByName[name] = codec
	s.valuesByType[typ] = codec
	return nil
}

func (s *Support) register(nodeType string, f Factory, codec *configCodec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.nodes[nodeType]; exists {
		return fmt.Errorf("node type %q already registered", nodeType)
	}
	s.nodes[nodeType] = nodeEntry{factory: f, config: codec}
	return nil
}

// CreateNode instantiates a default node of the given kind.
func (s *Support) CreateNode(nodeType string) (node.Node, error) {
	s.mu.RLock()
	entry, ok := s.nodes[nodeType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("node type %q: %w", nodeType, domain.ErrUnknownNodeType)
	}
	return entry.factory(), nil
}

// NodeTypes returns all registered node type tags in sorted order.
func (s *Support) NodeTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	types := make([]string, 0, len(s.nodes))
	for t := range s.nodes {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// HasNodeType reports whether a factory is registered for the tag.
func (s *Support) HasNodeType(nodeType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.nodes[nodeType]
	return ok
}

// SerializeConfig converts a node's opaque config to its tagged wire form.
// The tag is the node type.
func (s *Support) SerializeConfig(nodeType string, cfg any) (*domain.SerializedConfig, error) {
	s.mu.RLock()
	entry, ok := s.nodes[nodeType]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("node type %q: %w", nodeType, domain.ErrUnknownNodeType)
	}
	if entry.config == nil {
		return nil, fmt.Errorf("node type %q has no config converter", nodeType)
	}
	data, err := entry.config.marshal(cfg)
	if err != nil {
		return nil, err
	}
	return &domain.SerializedConfig{Type: nodeType, Data: data}, nil
}

// DeserializeConfig converts a tagged wire config back to the concrete
// config object registered for the tag.
func (s *Support) DeserializeConfig(sc domain.SerializedConfig) (any, error) {
	s.mu.RLock()
	entry, ok := s.nodes[sc.Type]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("node type %q: %w", sc.Type, domain.ErrUnknownNodeType)
	}
	if entry.config == nil {
		return nil, fmt.Errorf("node type %q has no config converter", sc.Type)
	}
	return entry.config.unmarshal(sc.Data)
}

// hasConfig reports whether the node kind registered a config converter.
func (s *Support) hasConfig(nodeType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.nodes[nodeType]
	return ok && entry.config != nil
}

// SerializeValue converts a blackboard value to its tagged wire form, keyed
// by the value's dynamic type.
func (s *Support) SerializeValue(v any) (*domain.SerializedValue, error) {
	typ := reflect.TypeOf(v)
	s.mu.RLock()
	codec, ok := s.valuesByType[typ]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("type %s: %w", typ, domain.ErrUnknownValueType)
	}
	data, err := codec.marshal(v)
	if err != nil {
		return nil, err
	}
	return &domain.SerializedValue{Type: codec.name, Data: data}, nil
}

// DeserializeValue converts a tagged wire value back to its concrete type.
func (s *Support) DeserializeValue(sv domain.SerializedValue) (any, error) {
	s.mu.RLock()
	codec, ok := s.valuesByName[sv.Type]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("value type %q: %w", sv.Type, domain.ErrUnknownValueType)
	}
	return codec.unmarshal(sv.Data)
}

// ValueTypeName returns the registered name for a Go type.
func (s *Support) ValueTypeName(typ reflect.Type) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	codec, ok := s.valuesByType[typ]
	if !ok {
		return "", false
	}
	return codec.name, true
}
