package canopy

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/canopy/pkg/control"
	"github.com/aretw0/canopy/pkg/ports"
	"github.com/aretw0/canopy/pkg/support"
	"github.com/aretw0/canopy/pkg/tree"
)

// Runtime is the high-level entry point for the Canopy library. It bundles
// a tree, its registry, and the control loop with a connected client.
type Runtime struct {
	support *support.Support
	client  *control.Client
	loop    *control.Loop
	logger  *slog.Logger

	queueSize int
	loopOpts  []control.LoopOption
}

// Option defines a functional option for configuring the Runtime.
type Option func(*Runtime)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTickInterval sets the initial sleep between control-loop cycles.
func WithTickInterval(interval time.Duration) Option {
	return func(r *Runtime) {
		r.loopOpts = append(r.loopOpts, control.WithInterval(interval))
	}
}

// WithRunRoots enables ticking the declared roots from the start.
func WithRunRoots(run bool) Option {
	return func(r *Runtime) {
		r.loopOpts = append(r.loopOpts, control.WithRunRoots(run))
	}
}

// WithMetrics registers the loop's prometheus collectors.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(r *Runtime) {
		r.loopOpts = append(r.loopOpts, control.WithMetrics(reg))
	}
}

// WithQueueSize sets the capacity of the command and event queues.
func WithQueueSize(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.queueSize = n
		}
	}
}

// New initializes a Runtime around a registry. The registry decides which
// node kinds and value types the tree can host; see nodes.Register for the
// built-ins.
func New(sup *support.Support, opts ...Option) *Runtime {
	r := &Runtime{
		support:   sup,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		queueSize: 64,
	}
	for _, opt := range opts {
		opt(r)
	}

	client, server := control.NewPair(r.queueSize)
	r.client = client
	r.loop = control.NewLoop(tree.New(), sup, server,
		append([]control.LoopOption{control.WithLogger(r.logger)}, r.loopOpts...)...)
	return r
}

// Client returns the control client connected to the loop.
func (r *Runtime) Client() *control.Client {
	return r.client
}

// Tree returns the underlying tree. It is only safe to touch before Run
// starts, or from a control.Callback afterwards.
func (r *Runtime) Tree() *tree.Tree {
	return r.loop.Tree()
}

// Support returns the registry.
func (r *Runtime) Support() *support.Support {
	return r.support
}

// Run executes the control loop until the context is canceled.
func (r *Runtime) Run(ctx context.Context) error {
	return r.loop.Run(ctx)
}

// SaveTree serializes the current tree into a store. Only safe before Run
// starts; a running tree is dumped through RequestTreeConfig instead.
func (r *Runtime) SaveTree(ctx context.Context, store ports.TreeStore, name string) error {
	doc, err := r.support.SerializeTree(r.Tree())
	if err != nil {
		return fmt.Errorf("serialize tree: %w", err)
	}
	data, err := support.EncodeDocument(doc)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return store.Save(ctx, name, data)
}

// LoadTree replaces the tree with a document from a store. Only safe before
// Run starts; a running tree is replaced through LoadTreeConfig instead.
func (r *Runtime) LoadTree(ctx context.Context, store ports.TreeStore, name string) error {
	data, err := store.Load(ctx, name)
	if err != nil {
		return err
	}
	doc, err := support.DecodeDocument(data)
	if err != nil {
		return err
	}
	loaded, err := r.support.DeserializeTree(doc)
	if err != nil {
		return fmt.Errorf("restore tree: %w", err)
	}
	*r.Tree() = *loaded
	return nil
}
