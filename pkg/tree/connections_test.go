package tree_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/blackboard"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/node"
	"github.com/aretw0/canopy/pkg/tree"
)

// emitter writes a fixed float to its "out" port on every tick.
type emitter struct {
	node.Base
	value float64
	out   *blackboard.Writer[float64]
}

func (e *emitter) Ports() []domain.Port {
	return []domain.Port{domain.OutputPort("out", "f64")}
}

func (e *emitter) SetupPorts(r node.PortResolver) error {
	w, err := node.SetupOutput(r, "out", 0.0)
	if err != nil {
		return err
	}
	e.out = w
	return nil
}

func (e *emitter) Tick(context.Context, node.RunContext) (domain.ExecutionStatus, error) {
	if e.out != nil {
		if err := e.out.Set(e.value); err != nil {
			return domain.StatusFailure, err
		}
	}
	return domain.StatusSuccess, nil
}

func (*emitter) NodeType() string { return "emitter" }

func TestConnectPortToBlackboard(t *testing.T) {
	tr := tree.New()
	id := domain.NewNodeID()
	em := &emitter{value: 4.2}
	require.NoError(t, tr.AddNode(id, em))

	bb := blackboard.New(domain.NewBlackboardID())
	require.NoError(t, tr.AddBlackboard(bb))

	np := domain.NodePort{Node: id, Port: "out"}
	bp := domain.BlackboardPort{Blackboard: bb.ID(), Name: "speed"}
	require.NoError(t, tr.ConnectPortToBlackboard(np, bp))

	status, err := tr.Execute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status)

	value, err := bb.Value("speed")
	require.NoError(t, err)
	assert.Equal(t, 4.2, value)

	conns := tr.ConnectionsFor(bb.ID())
	require.Len(t, conns, 1)
	assert.Equal(t, np, conns[0].Node)
	assert.Equal(t, bp, conns[0].Blackboard)
}

func TestConnectPort_Validation(t *testing.T) {
	tr := tree.New()
	id := domain.NewNodeID()
	require.NoError(t, tr.AddNode(id, &emitter{}))
	bb := blackboard.New(domain.NewBlackboardID())
	require.NoError(t, tr.AddBlackboard(bb))

	t.Run("unknown node", func(t *testing.T) {
		err := tr.ConnectPortToBlackboard(
			domain.NodePort{Node: domain.NewNodeID(), Port: "out"},
			domain.BlackboardPort{Blackboard: bb.ID(), Name: "x"})
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})
	t.Run("undeclared port", func(t *testing.T) {
		err := tr.ConnectPortToBlackboard(
			domain.NodePort{Node: id, Port: "nope"},
			domain.BlackboardPort{Blackboard: bb.ID(), Name: "x"})
		assert.ErrorIs(t, err, domain.ErrPortNotFound)
	})
	t.Run("unknown blackboard", func(t *testing.T) {
		err := tr.ConnectPortToBlackboard(
			domain.NodePort{Node: id, Port: "out"},
			domain.BlackboardPort{Blackboard: domain.NewBlackboardID(), Name: "x"})
		assert.ErrorIs(t, err, domain.ErrBlackboardNotFound)
	})
}

func TestConnectPort_TypeMismatchRollsBack(t *testing.T) {
	tr := tree.New()
	id := domain.NewNodeID()
	require.NoError(t, tr.AddNode(id, &emitter{}))

	bb := blackboard.New(domain.NewBlackboardID())
	// The slot already holds a string, so binding a float writer must fail.
	require.NoError(t, bb.Define("speed", "fast"))
	require.NoError(t, tr.AddBlackboard(bb))

	err := tr.ConnectPortToBlackboard(
		domain.NodePort{Node: id, Port: "out"},
		domain.BlackboardPort{Blackboard: bb.ID(), Name: "speed"})
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)
	assert.Empty(t, tr.Connections())
}

func TestConnectPort_FailedReconnectKeepsExisting(t *testing.T) {
	tr := tree.New()
	id := domain.NewNodeID()
	em := &emitter{value: 7.0}
	require.NoError(t, tr.AddNode(id, em))

	bb := blackboard.New(domain.NewBlackboardID())
	require.NoError(t, bb.Define("label", "text"))
	require.NoError(t, tr.AddBlackboard(bb))

	np := domain.NodePort{Node: id, Port: "out"}
	require.NoError(t, tr.ConnectPortToBlackboard(np, domain.BlackboardPort{Blackboard: bb.ID(), Name: "first"}))

	// Reconnecting to a string-typed slot fails; the original connection
	// must survive, both in the records and in the node's handle.
	err := tr.ConnectPortToBlackboard(np, domain.BlackboardPort{Blackboard: bb.ID(), Name: "label"})
	assert.ErrorIs(t, err, domain.ErrTypeMismatch)

	conns := tr.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, "first", conns[0].Blackboard.Name)

	status, err := tr.Execute(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status)
	value, err := bb.Value("first")
	require.NoError(t, err)
	assert.Equal(t, 7.0, value)
}

func TestConnectPort_ReplacesExisting(t *testing.T) {
	tr := tree.New()
	id := domain.NewNodeID()
	require.NoError(t, tr.AddNode(id, &emitter{value: 1.0}))
	bb := blackboard.New(domain.NewBlackboardID())
	require.NoError(t, tr.AddBlackboard(bb))

	np := domain.NodePort{Node: id, Port: "out"}
	require.NoError(t, tr.ConnectPortToBlackboard(np, domain.BlackboardPort{Blackboard: bb.ID(), Name: "first"}))
	require.NoError(t, tr.ConnectPortToBlackboard(np, domain.BlackboardPort{Blackboard: bb.ID(), Name: "second"}))

	conns := tr.Connections()
	require.Len(t, conns, 1)
	assert.Equal(t, "second", conns[0].Blackboard.Name)
}

func TestDisconnectPort(t *testing.T) {
	tr := tree.New()
	id := domain.NewNodeID()
	em := &emitter{value: 1.0}
	require.NoError(t, tr.AddNode(id, em))
	bb := blackboard.New(domain.NewBlackboardID())
	require.NoError(t, tr.AddBlackboard(bb))

	np := domain.NodePort{Node: id, Port: "out"}
	require.NoError(t, tr.ConnectPortToBlackboard(np, domain.BlackboardPort{Blackboard: bb.ID(), Name: "speed"}))
	require.NoError(t, tr.DisconnectPort(np))

	assert.Empty(t, tr.Connections())
	// The handle is unbound, so ticking no longer writes anywhere.
	assert.Nil(t, em.out)
}

func TestRemoveBlackboard_PrunesAndRebinds(t *testing.T) {
	tr := tree.New()
	id := domain.NewNodeID()
	em := &emitter{value: 1.0}
	require.NoError(t, tr.AddNode(id, em))
	bb := blackboard.New(domain.NewBlackboardID())
	require.NoError(t, tr.AddBlackboard(bb))

	np := domain.NodePort{Node: id, Port: "out"}
	require.NoError(t, tr.ConnectPortToBlackboard(np, domain.BlackboardPort{Blackboard: bb.ID(), Name: "speed"}))

	require.NoError(t, tr.RemoveBlackboard(bb.ID()))
	assert.Empty(t, tr.Connections())
	assert.Nil(t, em.out)
	_, err := tr.Blackboard(bb.ID())
	assert.ErrorIs(t, err, domain.ErrBlackboardNotFound)
}
