package domain

import "fmt"

// ExecutionStatus is the outcome of ticking a node.
// The order (Running < Success < Failure) is stable and used for tie-break
// comparisons in tests.
type ExecutionStatus int

const (
	StatusRunning ExecutionStatus = iota
	StatusSuccess
	StatusFailure
)

// String returns the lowercase wire name of the status.
func (s ExecutionStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSuccess:
		return "success"
	case StatusFailure:
		return "failure"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// MarshalText encodes the status by its wire name.
func (s ExecutionStatus) MarshalText() ([]byte, error) {
	switch s {
	case StatusRunning, StatusSuccess, StatusFailure:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("invalid execution status: %d", int(s))
	}
}

// UnmarshalText decodes a status from its wire name.
func (s *ExecutionStatus) UnmarshalText(data []byte) error {
	switch string(data) {
	case "running":
		*s = StatusRunning
	case "success":
		*s = StatusSuccess
	case "failure":
		*s = StatusFailure
	default:
		return fmt.Errorf("invalid execution status: %q", string(data))
	}
	return nil
}
