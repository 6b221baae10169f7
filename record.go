package ggc

import "github.com/prataprc/ggc/internal/sysmem"

// Tag is the bitset carried by every AllocationRecord: NONE for a plain
// block, ROOT for one that is always reachable regardless of the stack,
// and MARK, set transiently while a collection cycle is walking the
// reachability graph.
type Tag uint8

const (
	// TagNone is the zero value: no special treatment.
	TagNone Tag = 0
	// TagRoot marks a block as reachable regardless of stack scanning.
	TagRoot Tag = 1 << 0
	// TagMark is set on a record while it is known reachable during the
	// current collection cycle; cleared again by Sweep.
	TagMark Tag = 1 << 1
)

// Finalizer is invoked with a managed block's base address immediately
// before the block is freed.
type Finalizer func(ptr uintptr)

// AllocationRecord is the metadata for one block handed out by the
// façade. Exactly one record exists per live managed block; chains of
// records sharing a bucket are singly linked via next. Put inserts new
// records at the head; a resize rebuilds the chains without preserving
// their order.
type AllocationRecord struct {
	Ptr       uintptr
	Size      int64
	tag       Tag
	finalizer Finalizer
	pool      sysmem.Pool
	next      *AllocationRecord
}

// Tag returns the record's current tag bits.
func (r *AllocationRecord) Tag() Tag { return r.tag }

// HasTag reports whether every bit in t is set on the record.
func (r *AllocationRecord) HasTag(t Tag) bool { return r.tag&t == t }

func (r *AllocationRecord) setTag(t Tag)   { r.tag |= t }
func (r *AllocationRecord) clearTag(t Tag) { r.tag &^= t }
