package nodes

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/node"
)

// PortTime is the input port every time-keyed decorator reads. Its value is
// a monotonically increasing clock in seconds.
const PortTime = "time"

// timeInput is the shared time-port plumbing of the time-keyed decorators.
type timeInput struct {
	reader *blackboard.Reader[float64]
}

func (t *timeInput) Ports() []domain.Port {
	return []domain.Port{domain.InputPort(PortTime, "f64")}
}

func (t *timeInput) SetupPorts(r node.PortResolver) error {
	reader, err := node.SetupInput[float64](r, PortTime)
	if err != nil {
		return err
	}
	t.reader = reader
	return nil
}

func (t *timeInput) now() (float64, error) {
	if t.reader == nil {
		return 0, fmt.Errorf("port %q is not connected: %w", PortTime, domain.ErrPortNotFound)
	}
	return t.reader.Get()
}

// DelayConfig sets the interval of a Delay node.
type DelayConfig struct {
	// Interval is the delay in seconds of the time port's clock.
	Interval float64 `json:"interval" yaml:"interval" mapstructure:"interval"`
}

// Delay reports Running until Interval has elapsed on the time port since
// the tick that armed it. On elapse it ticks its child if one is attached
// (reporting the child's status) or reports Success, and re-arms on the
// next tick.
type Delay struct {
	timeInput
	cfg      DelayConfig
	armed    bool
	baseline float64
}

func (*Delay) NodeType() string { return "delay" }

func (d *Delay) Config() any { return &d.cfg }

func (d *Delay) SetConfig(cfg any) error {
	return node.CoerceConfig(&d.cfg, cfg)
}

func (d *Delay) Reset() {
	d.armed = false
	d.baseline = 0
}

func (d *Delay) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	now, err := d.now()
	if err != nil {
		return domain.StatusFailure, err
	}

	if !d.armed {
		d.armed = true
		d.baseline = now
		return domain.StatusRunning, nil
	}
	if now-d.baseline < d.cfg.Interval {
		return domain.StatusRunning, nil
	}

	d.armed = false
	if rc.Children() == 0 {
		return domain.StatusSuccess, nil
	}
	return rc.RunChild(ctx, 0)
}

// TimeSliceConfig sets the re-tick interval of a TimeSlice node.
type TimeSliceConfig struct {
	// Interval is the minimum clock distance between child ticks.
	Interval float64 `json:"interval" yaml:"interval" mapstructure:"interval"`
}

// TimeSlice rate-limits its child: the child is ticked at most once per
// Interval of the time port's clock, and the last observed status is
// reported in between.
type TimeSlice struct {
	timeInput
	cfg     TimeSliceConfig
	primed  bool
	lastRun float64
	last    domain.ExecutionStatus
}

func (*TimeSlice) NodeType() string { return "time_slice" }

func (t *TimeSlice) Config() any { return &t.cfg }

func (t *TimeSlice) SetConfig(cfg any) error {
	return node.CoerceConfig(&t.cfg, cfg)
}

func (t *TimeSlice) Reset() {
	t.primed = false
	t.lastRun = 0
	t.last = domain.StatusRunning
}

func (t *TimeSlice) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	now, err := t.now()
	if err != nil {
		return domain.StatusFailure, err
	}

	if t.primed && now-t.lastRun < t.cfg.Interval {
		return t.last, nil
	}

	status, err := runOnlyChild(ctx, rc)
	if err != nil {
		return domain.StatusFailure, err
	}
	t.primed = true
	t.lastRun = now
	t.last = status
	return status, nil
}

// IfTimeExceedsConfig sets the gate time of an IfTimeExceeds node.
type IfTimeExceedsConfig struct {
	// When is the clock value the time port must reach before the child runs.
	When float64 `json:"when" yaml:"when" mapstructure:"when"`
}

// IfTimeExceeds fails until the time port's clock reaches When, then ticks
// its child and reports the child's status.
type IfTimeExceeds struct {
	timeInput
	cfg IfTimeExceedsConfig
}

func (*IfTimeExceeds) Reset() {}

func (*IfTimeExceeds) NodeType() string { return "if_time_exceeds" }

func (n *IfTimeExceeds) Config() any { return &n.cfg }

func (n *IfTimeExceeds) SetConfig(cfg any) error {
	return node.CoerceConfig(&n.cfg, cfg)
}

func (n *IfTimeExceeds) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	now, err := n.now()
	if err != nil {
		return domain.StatusFailure, err
	}
	if now < n.cfg.When {
		return domain.StatusFailure, nil
	}
	return runOnlyChild(ctx, rc)
}
