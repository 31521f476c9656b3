package tree

import (
	"context"
	"fmt"

	"github.com/aretw0/canopy/pkg/domain"
)

// Observer receives the status of every node ticked during an execution, in
// completion order. The control loop uses it to mirror per-node results out
// as events without the nodes being aware.
type Observer func(domain.NodeID, domain.ExecutionStatus)

// Execute ticks the subtree rooted at id and returns its status. Node tick
// errors propagate out of the whole subtree immediately.
func (t *Tree) Execute(ctx context.Context, id domain.NodeID) (domain.ExecutionStatus, error) {
	return t.tick(ctx, id, nil)
}

// ExecuteObserved is Execute with a per-node status trace.
func (t *Tree) ExecuteObserved(ctx context.Context, id domain.NodeID, obs Observer) (domain.ExecutionStatus, error) {
	return t.tick(ctx, id, obs)
}

func (t *Tree) tick(ctx context.Context, id domain.NodeID, obs Observer) (domain.ExecutionStatus, error) {
	s, ok := t.nodes[id]
	if !ok {
		return domain.StatusFailure, fmt.Errorf("node %s: %w", id, domain.ErrNodeNotFound)
	}
	if s.ticking {
		return domain.StatusFailure, fmt.Errorf("node %s: %w", id, domain.ErrNodeBusy)
	}

	s.ticking = true
	defer func() { s.ticking = false }()

	status, err := s.node.Tick(ctx, runContext{t: t, id: id, obs: obs})
	if err != nil {
		return domain.StatusFailure, err
	}
	if obs != nil {
		obs(id, status)
	}
	return status, nil
}

// runContext is the tree-backed node.RunContext. It exposes only the child
// count and a way to tick one child, hiding the tree's storage from nodes.
type runContext struct {
	t   *Tree
	id  domain.NodeID
	obs Observer
}

func (rc runContext) Children() int {
	return len(rc.t.children[rc.id])
}

func (rc runContext) RunChild(ctx context.Context, i int) (domain.ExecutionStatus, error) {
	kids := rc.t.children[rc.id]
	if i < 0 || i >= len(kids) {
		return domain.StatusFailure, fmt.Errorf("child %d of %d: %w", i, len(kids), domain.ErrInvalidPosition)
	}
	return rc.t.tick(ctx, kids[i], rc.obs)
}
