package blackboard

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
)

// Blackboard is a string-keyed store of typed value cells. A name is bound
// to exactly one type for its lifetime; mismatched reads and writes fail
// without mutating the existing value.
type Blackboard struct {
	id domain.BlackboardID

	mu    sync.Mutex
	slots map[string]*slot
}

// slot holds a single typed cell. The cell mutex is only ever acquired via
// TryLock: the tree is single-owner, so contention means another goroutine
// is touching the cell, and that misuse fails fast with ErrSlotBusy instead
// of blocking the tick.
type slot struct {
	typ   reflect.Type
	mu    sync.Mutex
	value any
}

// New creates an empty blackboard with the given identity.
func New(id domain.BlackboardID) *Blackboard {
	return &Blackboard{
		id:    id,
		slots: make(map[string]*slot),
	}
}

// ID returns the blackboard identity.
func (b *Blackboard) ID() domain.BlackboardID {
	return b.id
}

// define registers a slot, or returns the existing one if the type matches.
func (b *Blackboard) define(name string, typ reflect.Type, initial any) (*slot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.slots[name]; ok {
		if s.typ != typ {
			return nil, fmt.Errorf("slot %q holds %s, not %s: %w", name, s.typ, typ, domain.ErrTypeMismatch)
		}
		return s, nil
	}

	s := &slot{typ: typ, value: initial}
	b.slots[name] = s
	return s, nil
}

// lookup returns an existing slot after checking its type.
func (b *Blackboard) lookup(name string, typ reflect.Type) (*slot, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.slots[name]
	if !ok {
		return nil, fmt.Errorf("slot %q: %w", name, domain.ErrPortNotFound)
	}
	if s.typ != typ {
		return nil, fmt.Errorf("slot %q holds %s, not %s: %w", name, s.typ, typ, domain.ErrTypeMismatch)
	}
	return s, nil
}

// Define registers a slot with an explicit type and initial value. It is
// used by the control plane when restoring serialized blackboards; typed
// node access goes through Output and Input instead.
func (b *Blackboard) Define(name string, initial any) error {
	if initial == nil {
		return fmt.Errorf("slot %q: initial value must not be nil", name)
	}
	_, err := b.define(name, reflect.TypeOf(initial), initial)
	return err
}

// SetValue replaces the value of an existing slot, checking the dynamic type.
func (b *Blackboard) SetValue(name string, value any) error {
	s, err := b.lookup(name, reflect.TypeOf(value))
	if err != nil {
		return err
	}
	if !s.mu.TryLock() {
		return fmt.Errorf("slot %q: %w", name, domain.ErrSlotBusy)
	}
	defer s.mu.Unlock()
	s.value = value
	return nil
}

// Value returns the current value of a slot.
func (b *Blackboard) Value(name string) (any, error) {
	b.mu.Lock()
	s, ok := b.slots[name]
	b.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("slot %q: %w", name, domain.ErrPortNotFound)
	}
	if !s.mu.TryLock() {
		return nil, fmt.Errorf("slot %q: %w", name, domain.ErrSlotBusy)
	}
	defer s.mu.Unlock()
	return s.value, nil
}

// Names returns the slot names in sorted order.
func (b *Blackboard) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	names := make([]string, 0, len(b.slots))
	for name := range b.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot copies the current slot values. The control loop uses snapshots
// for change detection (reflect.DeepEqual) and for blackboard dumps.
func (b *Blackboard) Snapshot() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]any, len(b.slots))
	for name, s := range b.slots {
		out[name] = s.value
	}
	return out
}
