package ggc

import "unsafe"

// sweep reclaims every record left unmarked and unrooted after mark,
// invoking its finalizer and releasing its block back to the arena, and
// clears MARK on every survivor so the next cycle starts unmarked.
// Returns total bytes reclaimed.
func (ctx *CollectorContext) sweep() int64 {
	var reclaimed int64
	var finalized int64
	ctx.index.sweepPass(func(r *AllocationRecord) {
		if r.finalizer != nil {
			r.finalizer(r.Ptr)
			finalized++
		}
		r.pool.Free(unsafe.Pointer(r.Ptr))
		reclaimed += r.Size
	})
	debugf("ggc: sweep reclaimed:%v finalized:%v", reclaimed, finalized)
	return reclaimed
}
