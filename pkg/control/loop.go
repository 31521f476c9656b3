package control

import (
	"context"
	"log/slog"
	"reflect"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/canopy/internal/logging"
	"github.com/aretw0/canopy/pkg/domain"
	"github.com/aretw0/canopy/pkg/support"
	"github.com/aretw0/canopy/pkg/tree"
)

// DefaultInterval is the sleep between poll/tick cycles unless reconfigured.
const DefaultInterval = 50 * time.Millisecond

// Loop is the background worker that owns a tree. Each cycle it drains all
// pending commands, applies them, forwards the resulting events, and, when
// run-roots is enabled, ticks every declared root and forwards execution
// results plus a dump of each blackboard whose values changed.
//
// The tree is only ever touched on the Run goroutine; clients interact
// purely through the channel pair.
type Loop struct {
	applier *Applier
	server  *Server
	logger  *slog.Logger
	metrics *metrics

	lastDump map[domain.BlackboardID]map[string]any
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithLogger sets the loop's structured logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithInterval sets the initial sleep between cycles.
func WithInterval(interval time.Duration) LoopOption {
	return func(l *Loop) {
		l.applier.Settings.Interval = interval
	}
}

// WithRunRoots sets whether roots are ticked from the start.
func WithRunRoots(run bool) LoopOption {
	return func(l *Loop) {
		l.applier.Settings.RunRoots = run
	}
}

// WithMetrics registers the loop's prometheus collectors.
func WithMetrics(reg prometheus.Registerer) LoopOption {
	return func(l *Loop) {
		l.metrics = newMetrics(reg)
	}
}

// NewLoop creates a loop owning the given tree, serving the given server
// half.
func NewLoop(t *tree.Tree, sup *support.Support, server *Server, opts ...LoopOption) *Loop {
	l := &Loop{
		applier: &Applier{
			Tree:     t,
			Support:  sup,
			Settings: Settings{Interval: DefaultInterval},
		},
		server:   server,
		logger:   logging.NewNop(),
		lastDump: make(map[domain.BlackboardID]map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tree returns the tree the loop owns. Only safe to touch before Run starts
// or through a Callback command afterwards.
func (l *Loop) Tree() *tree.Tree {
	return l.applier.Tree
}

// Run executes the poll/tick loop until the context is canceled.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("control loop started", "interval", l.applier.Settings.Interval)
	timer := time.NewTimer(l.applier.Settings.Interval)
	defer timer.Stop()

	for {
		l.cycle(ctx)
		l.metrics.observeCycle()

		// An interval change through RunSettings takes effect here, on the
		// next sleep.
		timer.Reset(l.applier.Settings.Interval)
		select {
		case <-ctx.Done():
			l.logger.Info("control loop stopped", "reason", ctx.Err())
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (l *Loop) cycle(ctx context.Context) {
	for {
		cmd, ok := l.server.TryRecv()
		if !ok {
			break
		}
		l.metrics.observeCommand(cmd.Name())
		for _, ev := range l.applier.Apply(cmd) {
			l.forward(ev)
		}
	}

	if l.applier.Settings.RunRoots {
		l.runRoots(ctx)
	}
}

// runRoots ticks every declared root. One root's error does not abort the
// others.
func (l *Loop) runRoots(ctx context.Context) {
	for _, root := range l.applier.Tree.Roots() {
		result := ExecutionResult{Root: root}
		status, err := l.applier.Tree.ExecuteObserved(ctx, root, func(id domain.NodeID, st domain.ExecutionStatus) {
			result.Trace = append(result.Trace, NodeStatus{ID: id, Status: st})
		})
		if err != nil {
			result.Error = err.Error()
			l.metrics.observeTick("error")
			l.logger.Warn("root tick failed", "root", root, "err", err)
		} else {
			result.Status = status
			l.metrics.observeTick(status.String())
		}
		l.forward(result)
	}

	l.dumpBlackboards()
}

// dumpBlackboards forwards a BlackboardInformation for every blackboard
// whose values changed since the previous dump.
func (l *Loop) dumpBlackboards() {
	seen := make(map[domain.BlackboardID]bool)
	for _, id := range l.applier.Tree.BlackboardIDs() {
		seen[id] = true
		bb, err := l.applier.Tree.Blackboard(id)
		if err != nil {
			continue
		}
		snapshot := bb.Snapshot()
		if reflect.DeepEqual(snapshot, l.lastDump[id]) {
			continue
		}
		l.lastDump[id] = snapshot
		l.forward(l.applier.blackboardInfo(id))
	}
	for id := range l.lastDump {
		if !seen[id] {
			delete(l.lastDump, id)
		}
	}
}

func (l *Loop) forward(ev Event) {
	if err := l.server.Send(ev); err != nil {
		l.logger.Warn("dropping event, queue full", "event", ev.Name())
	}
}
