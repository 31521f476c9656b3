package nodes_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/nodes"
)

// clock wires the time port of a node under test to a blackboard slot the
// test can advance.
type clock struct {
	bb     *blackboard.Blackboard
	writer *blackboard.Writer[float64]
}

func newClock(t *testing.T) *clock {
	t.Helper()
	bb := blackboard.New(domain.NewBlackboardID())
	w, err := blackboard.Output[float64](bb, "clock", 0)
	require.NoError(t, err)
	return &clock{bb: bb, writer: w}
}

func (c *clock) Resolve(port string) (*blackboard.Blackboard, string, bool) {
	if port == nodes.PortTime {
		return c.bb, "clock", true
	}
	return nil, "", false
}

func (c *clock) set(t *testing.T, now float64) {
	t.Helper()
	require.NoError(t, c.writer.Set(now))
}

func TestDelay_Timeline(t *testing.T) {
	c := newClock(t)
	d := &nodes.Delay{}
	require.NoError(t, d.SetConfig(&nodes.DelayConfig{Interval: 5}))
	require.NoError(t, d.SetupPorts(c))

	ctx := context.Background()
	tick := func(now float64) domain.ExecutionStatus {
		t.Helper()
		c.set(t, now)
		status, err := d.Tick(ctx, newScript())
		require.NoError(t, err)
		return status
	}

	assert.Equal(t, domain.StatusRunning, tick(1)) // arms at t=1
	assert.Equal(t, domain.StatusRunning, tick(3))
	assert.Equal(t, domain.StatusSuccess, tick(6)) // 5s elapsed
	assert.Equal(t, domain.StatusRunning, tick(6)) // re-armed at t=6
	assert.Equal(t, domain.StatusSuccess, tick(11))
}

func TestDelay_ChildStatusOnElapse(t *testing.T) {
	c := newClock(t)
	d := &nodes.Delay{}
	require.NoError(t, d.SetConfig(&nodes.DelayConfig{Interval: 2}))
	require.NoError(t, d.SetupPorts(c))

	ctx := context.Background()
	rc := newScript(domain.StatusFailure)

	c.set(t, 0)
	status, err := d.Tick(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, status)
	assert.Equal(t, []int{0}, rc.ticked)

	c.set(t, 2)
	status, err = d.Tick(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailure, status)
	assert.Equal(t, []int{1}, rc.ticked)
}

func TestDelay_UnconnectedPortFails(t *testing.T) {
	d := &nodes.Delay{}
	_, err := d.Tick(context.Background(), newScript())
	assert.ErrorIs(t, err, domain.ErrPortNotFound)
}

func TestDelay_Reset(t *testing.T) {
	c := newClock(t)
	d := &nodes.Delay{}
	require.NoError(t, d.SetConfig(&nodes.DelayConfig{Interval: 5}))
	require.NoError(t, d.SetupPorts(c))

	ctx := context.Background()
	c.set(t, 1)
	_, err := d.Tick(ctx, newScript())
	require.NoError(t, err)

	// Reset drops the baseline; the next tick re-arms instead of elapsing.
	d.Reset()
	c.set(t, 100)
	status, err := d.Tick(ctx, newScript())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, status)
}

func TestTimeSlice(t *testing.T) {
	c := newClock(t)
	ts := &nodes.TimeSlice{}
	require.NoError(t, ts.SetConfig(&nodes.TimeSliceConfig{Interval: 10}))
	require.NoError(t, ts.SetupPorts(c))

	ctx := context.Background()
	rc := newScript(domain.StatusSuccess)

	c.set(t, 0)
	status, err := ts.Tick(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status)
	assert.Equal(t, []int{1}, rc.ticked)

	// Within the interval the child is not re-ticked; the last status is
	// replayed.
	c.set(t, 5)
	status, err = ts.Tick(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status)
	assert.Equal(t, []int{1}, rc.ticked)

	c.set(t, 10)
	_, err = ts.Tick(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, rc.ticked)
}

func TestIfTimeExceeds(t *testing.T) {
	c := newClock(t)
	n := &nodes.IfTimeExceeds{}
	require.NoError(t, n.SetConfig(&nodes.IfTimeExceedsConfig{When: 7}))
	require.NoError(t, n.SetupPorts(c))

	ctx := context.Background()
	rc := newScript(domain.StatusSuccess)

	c.set(t, 3)
	status, err := n.Tick(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailure, status)
	assert.Equal(t, []int{0}, rc.ticked)

	c.set(t, 7)
	status, err = n.Tick(ctx, rc)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status)
	assert.Equal(t, []int{1}, rc.ticked)
}
