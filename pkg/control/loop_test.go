package control_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/canopy/pkg/control"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/nodes"
	"github.com/aretw0/canopy/pkg/support"
	"github.com/aretw0/canopy/pkg/tree"
)

// startLoop runs a loop against a fresh tree and returns its client. The
// loop is stopped and awaited on test cleanup.
func startLoop(t *testing.T, opts ...control.LoopOption) *control.Client {
	t.Helper()
	s := support.New()
	require.NoError(t, nodes.Register(s))

	client, server := control.NewPair(256)
	opts = append([]control.LoopOption{control.WithInterval(time.Millisecond)}, opts...)
	loop := control.NewLoop(tree.New(), s, server, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = loop.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return client
}

// awaitEvent polls the client until an event of type E arrives, failing the
// test after a timeout. Events of other types are discarded.
func awaitEvent[E control.Event](t *testing.T, client *control.Client) E {
	t.Helper()
	var found E
	require.Eventually(t, func() bool {
		for {
			ev, ok := client.TryRecv()
			if !ok {
				return false
			}
			if e, ok := ev.(E); ok {
				found = e
				return true
			}
		}
	}, 2*time.Second, time.Millisecond)
	return found
}

func TestLoop_AppliesCommands(t *testing.T) {
	client := startLoop(t)
	id := domain.NewNodeID()

	require.NoError(t, client.Send(control.AddNode{ID: id, NodeType: "sequence"}))

	result := awaitEvent[control.CommandResult](t, client)
	assert.Equal(t, "add_node", result.Command)
	assert.Empty(t, result.Error)

	info := awaitEvent[control.NodeInformation](t, client)
	assert.Equal(t, id, info.ID)
}

func TestLoop_RunsRoots(t *testing.T) {
	client := startLoop(t, control.WithRunRoots(true))
	id := domain.NewNodeID()

	require.NoError(t, client.Send(control.AddNode{ID: id, NodeType: "always_running"}))
	require.NoError(t, client.Send(control.SetRoots{Roots: []domain.NodeID{id}}))

	result := awaitEvent[control.ExecutionResult](t, client)
	assert.Equal(t, id, result.Root)
	assert.Equal(t, domain.StatusRunning, result.Status)
	require.Len(t, result.Trace, 1)
	assert.Equal(t, id, result.Trace[0].ID)
}

func TestLoop_RootErrorDoesNotStopOthers(t *testing.T) {
	client := startLoop(t, control.WithRunRoots(true))
	broken := domain.NewNodeID()
	healthy := domain.NewNodeID()

	// A delay without its time port connected errors on every tick.
	require.NoError(t, client.Send(control.AddNode{ID: broken, NodeType: "delay"}))
	require.NoError(t, client.Send(control.AddNode{ID: healthy, NodeType: "always_success"}))
	require.NoError(t, client.Send(control.SetRoots{Roots: []domain.NodeID{broken, healthy}}))

	seen := map[domain.NodeID]control.ExecutionResult{}
	require.Eventually(t, func() bool {
		for {
			ev, ok := client.TryRecv()
			if !ok {
				return len(seen) == 2
			}
			if result, ok := ev.(control.ExecutionResult); ok {
				seen[result.Root] = result
			}
		}
	}, 2*time.Second, time.Millisecond)

	assert.NotEmpty(t, seen[broken].Error)
	assert.Empty(t, seen[healthy].Error)
	assert.Equal(t, domain.StatusSuccess, seen[healthy].Status)
}

func TestLoop_DumpsChangedBlackboards(t *testing.T) {
	client := startLoop(t, control.WithRunRoots(true))
	bb := domain.NewBlackboardID()

	require.NoError(t, client.Send(control.AddBlackboard{ID: bb}))
	require.NoError(t, client.Send(control.Callback{Fn: func(tr *tree.Tree) error {
		b, err := tr.Blackboard(bb)
		if err != nil {
			return err
		}
		return b.Define("speed", 1.0)
	}}))

	// The new slot eventually shows up as a changed-blackboard dump. Earlier
	// dumps of the still-empty blackboard are skipped.
	var info control.BlackboardInformation
	require.Eventually(t, func() bool {
		for {
			ev, ok := client.TryRecv()
			if !ok {
				return false
			}
			if bi, ok := ev.(control.BlackboardInformation); ok {
				if _, ok := bi.Values["speed"]; ok {
					info = bi
					return true
				}
			}
		}
	}, 2*time.Second, time.Millisecond)
	assert.Equal(t, "f64", info.Values["speed"].Type)
}

func TestLoop_StopsOnCancel(t *testing.T) {
	s := support.New()
	require.NoError(t, nodes.Register(s))
	_, server := control.NewPair(8)
	loop := control.NewLoop(tree.New(), s, server, control.WithInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop")
	}
}
