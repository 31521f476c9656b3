/*
Package domain defines the core value types of the Canopy behavior-tree
runtime: identifiers, execution statuses, the port model, and the serialized
forms used on the wire and on disk.

These types are deliberately free of behavior beyond encoding; the execution
semantics live in pkg/tree and pkg/nodes, and the registries that interpret
the serialized forms live in pkg/support.
*/
package domain
