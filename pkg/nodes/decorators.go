package nodes

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/node"
)

// runOnlyChild ticks the single child of a decorator.
func runOnlyChild(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	if rc.Children() != 1 {
		return domain.StatusFailure, fmt.Errorf("decorator expects exactly one child, has %d", rc.Children())
	}
	return rc.RunChild(ctx, 0)
}

// Negate swaps Success and Failure of its child; Running passes through.
type Negate struct {
	node.Base
}

func (*Negate) NodeType() string { return "negate" }

func (*Negate) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	status, err := runOnlyChild(ctx, rc)
	if err != nil {
		return domain.StatusFailure, err
	}
	switch status {
	case domain.StatusSuccess:
		return domain.StatusFailure, nil
	case domain.StatusFailure:
		return domain.StatusSuccess, nil
	default:
		return status, nil
	}
}

// ForceSuccess reports Success whenever its child completes; Running passes
// through.
type ForceSuccess struct {
	node.Base
}

func (*ForceSuccess) NodeType() string { return "force_success" }

func (*ForceSuccess) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	status, err := runOnlyChild(ctx, rc)
	if err != nil {
		return domain.StatusFailure, err
	}
	if status == domain.StatusRunning {
		return domain.StatusRunning, nil
	}
	return domain.StatusSuccess, nil
}

// ForceFailure reports Failure whenever its child completes; Running passes
// through.
type ForceFailure struct {
	node.Base
}

func (*ForceFailure) NodeType() string { return "force_failure" }

func (*ForceFailure) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	status, err := runOnlyChild(ctx, rc)
	if err != nil {
		return domain.StatusFailure, err
	}
	if status == domain.StatusRunning {
		return domain.StatusRunning, nil
	}
	return domain.StatusFailure, nil
}

// ForceRunning ticks its child and reports Running regardless of outcome.
type ForceRunning struct {
	node.Base
}

func (*ForceRunning) NodeType() string { return "force_running" }

func (*ForceRunning) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	if _, err := runOnlyChild(ctx, rc); err != nil {
		return domain.StatusFailure, err
	}
	return domain.StatusRunning, nil
}

// RetryConfig sets how often Retry re-arms a failing child.
type RetryConfig struct {
	// Attempts is the number of additional tries granted after a failure.
	Attempts int `json:"attempts" yaml:"attempts" mapstructure:"attempts"`
}

// Retry reports Running instead of Failure while attempts remain, so the
// child is re-ticked on the next cycle. Success and exhaustion both clear
// the attempt counter.
type Retry struct {
	node.Base
	cfg   RetryConfig
	tries int
}

func (*Retry) NodeType() string { return "retry" }

func (r *Retry) Config() any { return &r.cfg }

func (r *Retry) SetConfig(cfg any) error {
	return node.CoerceConfig(&r.cfg, cfg)
}

func (r *Retry) Reset() { r.tries = 0 }

func (r *Retry) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	status, err := runOnlyChild(ctx, rc)
	if err != nil {
		return domain.StatusFailure, err
	}
	switch status {
	case domain.StatusFailure:
		if r.tries < r.cfg.Attempts {
			r.tries++
			return domain.StatusRunning, nil
		}
		r.tries = 0
		return domain.StatusFailure, nil
	case domain.StatusSuccess:
		r.tries = 0
		return domain.StatusSuccess, nil
	default:
		return status, nil
	}
}

// IfThenElse ticks its first child as a condition. Success selects the
// second child, Failure the third (or reports Failure when only two children
// are attached); Running passes through.
type IfThenElse struct {
	node.Base
}

func (*IfThenElse) NodeType() string { return "if_then_else" }

func (*IfThenElse) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	n := rc.Children()
	if n != 2 && n != 3 {
		return domain.StatusFailure, fmt.Errorf("if_then_else expects two or three children, has %d", n)
	}

	cond, err := rc.RunChild(ctx, 0)
	if err != nil {
		return domain.StatusFailure, err
	}
	switch cond {
	case domain.StatusRunning:
		return domain.StatusRunning, nil
	case domain.StatusSuccess:
		return rc.RunChild(ctx, 1)
	default:
		if n == 3 {
			return rc.RunChild(ctx, 2)
		}
		return domain.StatusFailure, nil
	}
}
