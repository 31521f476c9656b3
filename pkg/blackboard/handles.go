package blackboard

import (
	"fmt"
	"reflect"

	"github.com/aretw0/canopy/pkg/domain"
)

// Writer is a typed handle that can only replace the value of its slot.
// A write is a pure replace; the previous value is never exposed.
type Writer[T any] struct {
	name string
	s    *slot
}

// Reader is a typed handle that reads the current value of its slot.
type Reader[T any] struct {
	name string
	s    *slot
}

// Output registers (or attaches to) a named slot of type T, failing if the
// name already exists bound to a different type. The default is stored only
// when the slot is created.
func Output[T any](b *Blackboard, name string, def T) (*Writer[T], error) {
	s, err := b.define(name, reflect.TypeOf((*T)(nil)).Elem(), def)
	if err != nil {
		return nil, err
	}
	return &Writer[T]{name: name, s: s}, nil
}

// Input attaches a typed reader to an existing slot, failing if the slot is
// absent or of a different type.
func Input[T any](b *Blackboard, name string) (*Reader[T], error) {
	s, err := b.lookup(name, reflect.TypeOf((*T)(nil)).Elem())
	if err != nil {
		return nil, err
	}
	return &Reader[T]{name: name, s: s}, nil
}

// Set replaces the slot value.
func (w *Writer[T]) Set(value T) error {
	if !w.s.mu.TryLock() {
		return fmt.Errorf("slot %q: %w", w.name, domain.ErrSlotBusy)
	}
	defer w.s.mu.Unlock()
	w.s.value = value
	return nil
}

// Get returns the current slot value.
func (r *Reader[T]) Get() (T, error) {
	var zero T
	if !r.s.mu.TryLock() {
		return zero, fmt.Errorf("slot %q: %w", r.name, domain.ErrSlotBusy)
	}
	defer r.s.mu.Unlock()

	value, ok := r.s.value.(T)
	if !ok {
		// Only reachable if the slot was populated through the untyped API
		// with a value that asserts differently (e.g. nil interface).
		return zero, fmt.Errorf("slot %q: %w", r.name, domain.ErrTypeMismatch)
	}
	return value, nil
}
