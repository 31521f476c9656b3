package nodes

import (
	"github.com/aretw0/canopy/pkg/support"
)

// Register wires every built-in node kind and the primitive value types
// (f64, i64, string, bool) into the registry. Hosts typically call this
// once on a fresh Support before adding their own kinds.
func Register(s *support.Support) error {
	regs := []func() error{
		func() error { return support.RegisterNode(s, func() *Sequence { return &Sequence{} }) },
		func() error { return support.RegisterNode(s, func() *Selector { return &Selector{} }) },
		func() error {
			return support.RegisterNodeWithConfig[*Parallel, ParallelConfig](s, func() *Parallel { return &Parallel{} })
		},
		func() error { return support.RegisterNode(s, func() *Negate { return &Negate{} }) },
		func() error { return support.RegisterNode(s, func() *ForceSuccess { return &ForceSuccess{} }) },
		func() error { return support.RegisterNode(s, func() *ForceFailure { return &ForceFailure{} }) },
		func() error { return support.RegisterNode(s, func() *ForceRunning { return &ForceRunning{} }) },
		func() error {
			return support.RegisterNodeWithConfig[*Delay, DelayConfig](s, func() *Delay { return &Delay{} })
		},
		func() error {
			return support.RegisterNodeWithConfig[*Retry, RetryConfig](s, func() *Retry { return &Retry{} })
		},
		func() error {
			return support.RegisterNodeWithConfig[*TimeSlice, TimeSliceConfig](s, func() *TimeSlice { return &TimeSlice{} })
		},
		func() error { return support.RegisterNode(s, func() *IfThenElse { return &IfThenElse{} }) },
		func() error {
			return support.RegisterNodeWithConfig[*IfTimeExceeds, IfTimeExceedsConfig](s, func() *IfTimeExceeds { return &IfTimeExceeds{} })
		},
		func() error { return support.RegisterNode(s, func() *AlwaysSuccess { return &AlwaysSuccess{} }) },
		func() error { return support.RegisterNode(s, func() *AlwaysFailure { return &AlwaysFailure{} }) },
		func() error { return support.RegisterNode(s, func() *AlwaysRunning { return &AlwaysRunning{} }) },
		func() error { return support.RegisterValue[float64](s, "f64") },
		func() error { return support.RegisterValue[int64](s, "i64") },
		func() error { return support.RegisterValue[string](s, "string") },
		func() error { return support.RegisterValue[bool](s, "bool") },
	}
	for _, reg := range regs {
		if err := reg(); err != nil {
			return err
		}
	}
	return nil
}
