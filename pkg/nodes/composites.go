package nodes

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/node"
)

// Sequence ticks its children left to right and returns the first non-Success
// status; Success if every child succeeds. A sequence without children
// succeeds.
type Sequence struct {
	node.Base
}

func (*Sequence) NodeType() string { return "sequence" }

func (*Sequence) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	for i := 0; i < rc.Children(); i++ {
		status, err := rc.RunChild(ctx, i)
		if err != nil {
			return domain.StatusFailure, err
		}
		if status != domain.StatusSuccess {
			return status, nil
		}
	}
	return domain.StatusSuccess, nil
}

// Selector ticks its children left to right and returns the first non-Failure
// status; Failure if every child fails. A selector without children fails.
type Selector struct {
	node.Base
}

func (*Selector) NodeType() string { return "selector" }

func (*Selector) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	for i := 0; i < rc.Children(); i++ {
		status, err := rc.RunChild(ctx, i)
		if err != nil {
			return domain.StatusFailure, err
		}
		if status != domain.StatusFailure {
			return status, nil
		}
	}
	return domain.StatusFailure, nil
}

// ParallelConfig sets the success threshold of a Parallel node.
type ParallelConfig struct {
	// Threshold is the number of succeeding children required for Success.
	Threshold int `json:"threshold" yaml:"threshold" mapstructure:"threshold"`
}

// Parallel ticks all children every tick (sequentially; the fan-out is
// logical only). It succeeds once Threshold children succeed, fails once
// more than n-Threshold children have failed, and reports Running otherwise.
type Parallel struct {
	node.Base
	cfg ParallelConfig
}

func (*Parallel) NodeType() string { return "parallel" }

func (p *Parallel) Config() any { return &p.cfg }

func (p *Parallel) SetConfig(cfg any) error {
	return node.CoerceConfig(&p.cfg, cfg)
}

func (p *Parallel) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	n := rc.Children()
	if p.cfg.Threshold < 0 || p.cfg.Threshold > n {
		return domain.StatusFailure, fmt.Errorf("parallel threshold %d out of range for %d children", p.cfg.Threshold, n)
	}

	successes, failures := 0, 0
	for i := 0; i < n; i++ {
		status, err := rc.RunChild(ctx, i)
		if err != nil {
			return domain.StatusFailure, err
		}
		switch status {
		case domain.StatusSuccess:
			successes++
		case domain.StatusFailure:
			failures++
		}
	}

	switch {
	case successes >= p.cfg.Threshold:
		return domain.StatusSuccess, nil
	case failures > n-p.cfg.Threshold:
		return domain.StatusFailure, nil
	default:
		return domain.StatusRunning, nil
	}
}
