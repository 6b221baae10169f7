// Package ggc implements a conservative, thread-local, mark-and-sweep
// garbage collector that sits in front of a real system allocator.
//
// Application code calls Malloc/Calloc/Realloc/Free style entry points on
// a *CollectorContext instead of talking to the system allocator
// directly. The collector keeps a record for every block it has handed
// out and, on a trigger or on demand, scans the call stack (plus the
// contents of every block already known to be reachable) for byte
// patterns that look like a pointer into one of its blocks. Blocks that
// are not transitively reachable from that root set are finalized and
// freed.
//
// The collector is single-mutator: a *CollectorContext must only be used
// from the goroutine that called Start, and a collection cycle always
// runs to completion synchronously on that same goroutine.
package ggc
