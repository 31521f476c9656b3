/*
Package ports defines the driven interfaces of the Canopy runtime.

These interfaces decouple the core from external implementations, letting
serialized tree documents live in memory, on disk, or in Redis without the
core knowing which.
*/
package ports
