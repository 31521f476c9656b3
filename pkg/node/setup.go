package node

import (
	"fmt"

	"github.com/aretw0/canopy/pkg/blackboard"
)

// SetupOutput binds a writer handle for a declared output port. An
// unconnected port yields a nil handle, not an error; nodes decide at tick
// time whether the port is mandatory.
func SetupOutput[T any](r PortResolver, port string, def T) (*blackboard.Writer[T], error) {
	bb, slot, ok := r.Resolve(port)
	if !ok {
		return nil, nil
	}
	w, err := blackboard.Output(bb, slot, def)
	if err != nil {
		return nil, fmt.Errorf("output port %q: %w", port, err)
	}
	return w, nil
}

// SetupInput binds a reader handle for a declared input port. An unconnected
// port yields a nil handle.
func SetupInput[T any](r PortResolver, port string) (*blackboard.Reader[T], error) {
	bb, slot, ok := r.Resolve(port)
	if !ok {
		return nil, nil
	}
	rd, err := blackboard.Input[T](bb, slot)
	if err != nil {
		return nil, fmt.Errorf("input port %q: %w", port, err)
	}
	return rd, nil
}
