package ggc

import "unsafe"

import "github.com/prataprc/ggc/internal/regflush"

const wordsize = int(unsafe.Sizeof(uintptr(0)))

// markRoots marks every record explicitly tagged ROOT and everything
// transitively reachable from it.
func (ctx *CollectorContext) markRoots() {
	ctx.index.Each(func(r *AllocationRecord) {
		if r.HasTag(TagRoot) {
			ctx.markAlloc(r.Ptr)
		}
	})
}

// markAlloc is the cycle-safe reachability flood fill. It walks an
// explicit work stack instead of recursing so that a long or cyclic
// chain of pointers can't blow the call stack; a record that has
// already been marked is simply dropped from the work list instead of
// being revisited, which is what makes cycles safe.
func (ctx *CollectorContext) markAlloc(candidate uintptr) {
	r := ctx.index.Get(candidate)
	if r == nil || r.HasTag(TagMark) {
		return
	}
	pending := []*AllocationRecord{r}
	for len(pending) > 0 {
		n := len(pending) - 1
		cur := pending[n]
		pending = pending[:n]
		if cur.HasTag(TagMark) {
			continue
		}
		cur.setTag(TagMark)
		scanWords(cur.Ptr, cur.Size, func(word uintptr) {
			if child := ctx.index.Get(word); child != nil && !child.HasTag(TagMark) {
				pending = append(pending, child)
			}
		})
	}
}

// markStack scans every byte offset from top (the deepest, numerically
// lowest, live stack address) up to the last word that fits below
// ctx.bos, interpreting each unaligned machine word as a candidate
// pointer. The scan has to step byte by byte rather than word by word
// because a pointer can land at any offset within a stack frame — the
// compiler gives no guarantee that a local variable holding a managed
// address falls on a word-aligned boundary. Assumes a downward-growing
// stack.
func (ctx *CollectorContext) markStack(top uintptr) {
	if top > ctx.bos {
		warnf("ggc: markStack: top %x above bos %x, skipping scan", top, ctx.bos)
		return
	}
	span := viewbytes(top, int64(ctx.bos-top))
	for i := 0; i+wordsize <= len(span); i++ {
		word := *(*uintptr)(unsafe.Pointer(&span[i]))
		ctx.markAlloc(word)
	}
}

// markRegisters treats each flushed register value as a candidate
// pointer. A register can hold the only live reference to a block
// between the moment a value is loaded and the moment it is spilled to
// the stack, so root discovery has to cover registers as well as the
// stack itself.
func (ctx *CollectorContext) markRegisters(buf *[regflush.NumSlots]uintptr) {
	for _, word := range buf {
		if word != 0 {
			ctx.markAlloc(word)
		}
	}
}

// scanWords reads every unaligned machine word in [base, base+size) and
// invokes fn with it. Used both for scanning the stack and for scanning
// the contents of an already-reachable block for embedded pointers.
func scanWords(base uintptr, size int64, fn func(uintptr)) {
	if size < int64(wordsize) {
		return
	}
	span := viewbytes(base, size)
	for i := 0; i+wordsize <= len(span); i++ {
		fn(*(*uintptr)(unsafe.Pointer(&span[i])))
	}
}

// mark runs the full mark phase: roots, then registers flushed to the
// stack, then the stack scan, in that order so that a pointer held only
// in a register at the moment of the call is materialized into
// addressable memory before markStack ever reads it. The assembly call
// in regflush.FlushRegisters is itself the ordering barrier this needs:
// a CALL instruction cannot be reordered around the code that follows
// it in the caller, so every register is guaranteed to have hit the
// buffer by the time markRegisters runs.
func (ctx *CollectorContext) mark() {
	ctx.markRoots()
	var buf [regflush.NumSlots]uintptr
	sp := regflush.FlushRegisters(&buf)
	ctx.markRegisters(&buf)
	ctx.markStack(sp)
}
