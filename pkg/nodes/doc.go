/*
Package nodes provides the built-in behavior-tree node kinds: the classic
composites (sequence, selector, parallel), single-child decorators, and a few
constant leaves useful as fixtures.

Time-keyed decorators (delay, time_slice, if_time_exceeds) never read the
wall clock. They take a monotonically increasing "time" input port (float64
seconds) so that ticking stays replayable and testable; the host decides
what drives that clock.

Register wires every built-in kind and the primitive value types into a
support registry.
*/
package nodes
