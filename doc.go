/*
Package canopy is a behavior-tree execution runtime: a library for building,
ticking, and remotely controlling a graph of stateful node tasks that
exchange typed values through shared blackboard slots.

The host application supplies concrete node implementations (I/O, hardware
access, timers) and drives ticking on its own schedule, either directly
through pkg/tree or through the background control loop in pkg/control. The
runtime provides:

  - the node/tree/blackboard execution model and its depth-first tick
    algorithm (pkg/node, pkg/tree, pkg/blackboard)
  - built-in composites and decorators with the classic behavior-tree
    semantics (pkg/nodes)
  - a type-erased registry that persists and restores heterogeneous trees
    of node types unknown to the core (pkg/support)
  - an asynchronous command/event protocol for inspecting and mutating a
    running tree from another goroutine or process (pkg/control, with HTTP
    and Redis adapters under pkg/adapters)

Ticking is strictly sequential per tree: a single worker goroutine owns the
tree and the only concurrency is between that worker and its clients,
mediated by message queues.
*/
package canopy
