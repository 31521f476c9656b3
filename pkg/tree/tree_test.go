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

// stub is a leaf that returns a fixed status and counts its ticks.
type stub struct {
	node.Base
	status domain.ExecutionStatus
	ticks  int
}

func (s *stub) Tick(context.Context, node.RunContext) (domain.ExecutionStatus, error) {
	s.ticks++
	return s.status, nil
}

func (*stub) NodeType() string { return "stub" }

// fanout ticks all of its children in order and succeeds.
type fanout struct {
	node.Base
}

func (f *fanout) Tick(ctx context.Context, rc node.RunContext) (domain.ExecutionStatus, error) {
	for i := 0; i < rc.Children(); i++ {
		if _, err := rc.RunChild(ctx, i); err != nil {
			return domain.StatusFailure, err
		}
	}
	return domain.StatusSuccess, nil
}

func (*fanout) NodeType() string { return "fanout" }

func addStub(t *testing.T, tr *tree.Tree, status domain.ExecutionStatus) (domain.NodeID, *stub) {
	t.Helper()
	id := domain.NewNodeID()
	n := &stub{status: status}
	require.NoError(t, tr.AddNode(id, n))
	return id, n
}

func TestAddNode_DuplicateID(t *testing.T) {
	tr := tree.New()
	id, _ := addStub(t, tr, domain.StatusSuccess)
	assert.Error(t, tr.AddNode(id, &stub{}))
}

func TestRelations_OrderAndPosition(t *testing.T) {
	tr := tree.New()
	parent, _ := addStub(t, tr, domain.StatusSuccess)
	a, _ := addStub(t, tr, domain.StatusSuccess)
	b, _ := addStub(t, tr, domain.StatusSuccess)
	c, _ := addStub(t, tr, domain.StatusSuccess)

	require.NoError(t, tr.AddRelation(parent, 0, a))
	require.NoError(t, tr.AddRelation(parent, 1, c))
	// Insert in the middle shifts the tail.
	require.NoError(t, tr.AddRelation(parent, 1, b))
	assert.Equal(t, []domain.NodeID{a, b, c}, tr.Children(parent))

	t.Run("position out of range", func(t *testing.T) {
		err := tr.AddRelation(parent, 5, a)
		assert.ErrorIs(t, err, domain.ErrInvalidPosition)
		err = tr.AddRelation(parent, -1, a)
		assert.ErrorIs(t, err, domain.ErrInvalidPosition)
	})

	t.Run("unknown parent or child", func(t *testing.T) {
		err := tr.AddRelation(domain.NewNodeID(), 0, a)
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
		err = tr.AddRelation(parent, 0, domain.NewNodeID())
		assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	})

	require.NoError(t, tr.RemoveRelation(parent, b))
	assert.Equal(t, []domain.NodeID{a, c}, tr.Children(parent))
	assert.ErrorIs(t, tr.RemoveRelation(parent, b), domain.ErrNodeNotFound)
}

func TestSetChildren_ReplacesWholesale(t *testing.T) {
	tr := tree.New()
	parent, _ := addStub(t, tr, domain.StatusSuccess)
	a, _ := addStub(t, tr, domain.StatusSuccess)
	b, _ := addStub(t, tr, domain.StatusSuccess)

	require.NoError(t, tr.AddRelation(parent, 0, a))
	require.NoError(t, tr.SetChildren(parent, []domain.NodeID{b, a}))
	assert.Equal(t, []domain.NodeID{b, a}, tr.Children(parent))

	err := tr.SetChildren(parent, []domain.NodeID{domain.NewNodeID()})
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
	// A failed replace leaves the previous list intact.
	assert.Equal(t, []domain.NodeID{b, a}, tr.Children(parent))
}

func TestRemoveNode_PrunesEverything(t *testing.T) {
	tr := tree.New()
	parent, _ := addStub(t, tr, domain.StatusSuccess)
	child, _ := addStub(t, tr, domain.StatusSuccess)
	require.NoError(t, tr.AddRelation(parent, 0, child))
	require.NoError(t, tr.SetRoots([]domain.NodeID{parent, child}))

	bb := blackboard.New(domain.NewBlackboardID())
	require.NoError(t, tr.AddBlackboard(bb))

	require.NoError(t, tr.RemoveNode(child))

	assert.Empty(t, tr.Children(parent))
	assert.Equal(t, []domain.NodeID{parent}, tr.Roots())
	_, err := tr.Node(child)
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)

	assert.ErrorIs(t, tr.RemoveNode(child), domain.ErrNodeNotFound)
}

func TestExecute_LeafAndObserver(t *testing.T) {
	tr := tree.New()
	root := domain.NewNodeID()
	require.NoError(t, tr.AddNode(root, &fanout{}))
	a, sa := addStub(t, tr, domain.StatusSuccess)
	b, _ := addStub(t, tr, domain.StatusRunning)
	require.NoError(t, tr.SetChildren(root, []domain.NodeID{a, b}))

	var trace []domain.NodeID
	status, err := tr.ExecuteObserved(context.Background(), root, func(id domain.NodeID, _ domain.ExecutionStatus) {
		trace = append(trace, id)
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, status)
	assert.Equal(t, 1, sa.ticks)
	// Children report before their parent, in execution order.
	assert.Equal(t, []domain.NodeID{a, b, root}, trace)
}

func TestExecute_CycleFailsLoudly(t *testing.T) {
	tr := tree.New()
	a := domain.NewNodeID()
	b := domain.NewNodeID()
	require.NoError(t, tr.AddNode(a, &fanout{}))
	require.NoError(t, tr.AddNode(b, &fanout{}))
	require.NoError(t, tr.SetChildren(a, []domain.NodeID{b}))
	require.NoError(t, tr.SetChildren(b, []domain.NodeID{a}))

	_, err := tr.Execute(context.Background(), a)
	assert.ErrorIs(t, err, domain.ErrNodeBusy)
}

func TestExecute_UnknownNode(t *testing.T) {
	tr := tree.New()
	_, err := tr.Execute(context.Background(), domain.NewNodeID())
	assert.ErrorIs(t, err, domain.ErrNodeNotFound)
}

func TestClear(t *testing.T) {
	tr := tree.New()
	id, _ := addStub(t, tr, domain.StatusSuccess)
	require.NoError(t, tr.SetRoots([]domain.NodeID{id}))
	require.NoError(t, tr.AddBlackboard(blackboard.New(domain.NewBlackboardID())))

	tr.Clear()

	assert.Empty(t, tr.NodeIDs())
	assert.Empty(t, tr.BlackboardIDs())
	assert.Empty(t, tr.Roots())
	assert.Empty(t, tr.Connections())
}
