package ggc

import "time"

import s "github.com/prataprc/gosettings"

import "github.com/prataprc/ggc/internal/sysmem"

// CollectorContext is the goroutine-scoped collector state: the
// allocation index, the backing sysmem arena, the paused flag, the
// bottom-of-stack sentinel and cycle statistics. A *CollectorContext
// must only be used from the goroutine that created it — collection
// walks the stack and registers of that one goroutine, so there is no
// meaningful way to share a context across mutators.
type CollectorContext struct {
	index  *AllocationIndex
	arena  *sysmem.Arena
	paused bool
	bos    uintptr
	stats  CycleStats
}

// Start initializes ctx with default tuning (see Defaultsettings) and
// records bos as the bottom-of-stack sentinel. bos must be the address
// of a local variable in the outermost frame the caller wants scanned —
// typically the function that owns the collector's lifetime.
//
// Note on Go's moving, growable goroutine stacks: the Go runtime can
// relocate a goroutine's stack when it grows, which invalidates any
// address captured before the move. bos is only trustworthy for the
// lifetime of a context if the frame that captured it never triggers a
// stack growth in the meantime; embedders that allocate deeply nested,
// stack-hungry call chains between Start and Stop are outside what this
// implementation can guarantee.
func Start(bos uintptr) *CollectorContext {
	return StartExt(bos, Defaultsettings())
}

// StartExt is Start with explicit tuning, supplied as a gosettings.Settings
// built from Defaultsettings() or ExtSettings(...).
func StartExt(bos uintptr, setts s.Settings) *CollectorContext {
	setts = Defaultsettings().Mixin(setts)
	initial := setts.Int64("index.initial")
	min := setts.Int64("index.min")
	downsize := setts.Float64("index.downsize")
	upsize := setts.Float64("index.upsize")
	sweep := setts.Float64("index.sweep")

	minblock, maxblock := setts.Int64("arena.minblock"), setts.Int64("arena.maxblock")
	arenasetts := sysmem.Defaultsettings(minblock, maxblock)
	arena := sysmem.NewArena(setts.Int64("arena.capacity"), arenasetts)

	ctx := &CollectorContext{
		index: NewAllocationIndex(initial, min, sweep, downsize, upsize),
		arena: arena,
		bos:   bos,
		stats: newCycleStats(),
	}
	infof("ggc: start bos:%x capacity:%v arena:%v", bos, ctx.index.Capacity(), arena.Allocated())
	return ctx
}

// Pause disables the automatic load-watermark trigger checked inside
// allocation façade calls. Explicit Run and Free keep working.
func (ctx *CollectorContext) Pause() { ctx.paused = true }

// Resume re-enables the automatic trigger.
func (ctx *CollectorContext) Resume() { ctx.paused = false }

// Paused reports whether the automatic trigger is currently disabled.
func (ctx *CollectorContext) Paused() bool { return ctx.paused }

// Index exposes the backing allocation index, chiefly for tests and the
// ggcmonster fuzz harness.
func (ctx *CollectorContext) Index() *AllocationIndex { return ctx.index }

// Run executes one full mark-and-sweep cycle and returns the bytes
// reclaimed.
func (ctx *CollectorContext) Run() int64 {
	start := time.Now()
	ctx.mark()
	reclaimed := ctx.sweep()
	ctx.stats.observe(reclaimed, time.Since(start))
	debugf("ggc: run reclaimed:%v duration:%v", reclaimed, time.Since(start))
	return reclaimed
}

// Stop runs a final sweep that frees every managed block regardless of
// reachability — every ROOT tag is cleared first and no mark phase
// runs, so the sweep treats everything as garbage — invokes every
// finalizer, releases the index and the arena, and returns the total
// bytes reclaimed.
func (ctx *CollectorContext) Stop() int64 {
	ctx.unrootRoots()
	reclaimed := ctx.sweep()
	ctx.index.Destroy()
	ctx.arena.Release()
	infof("ggc: stop reclaimed:%v", reclaimed)
	return reclaimed
}

// Stats returns the running statistics over every Run so far.
func (ctx *CollectorContext) Stats() CycleStats { return ctx.stats }

// unrootRoots clears the ROOT tag on every record, so a subsequent
// sweep can reclaim blocks that were only kept alive by being rooted.
func (ctx *CollectorContext) unrootRoots() {
	ctx.index.Each(func(r *AllocationRecord) { r.clearTag(TagRoot) })
}

// maybeCollect runs one cycle if the context is not paused and the
// index has reached its sweep limit. Called ahead of every allocating
// façade call so growth pressure is what drives collection, not a
// timer or an explicit caller decision.
func (ctx *CollectorContext) maybeCollect() {
	if ctx.paused {
		return
	}
	if ctx.index.Size() >= ctx.index.SweepLimit() {
		debugf("ggc: watermark trigger size:%v limit:%v", ctx.index.Size(), ctx.index.SweepLimit())
		ctx.Run()
	}
}
