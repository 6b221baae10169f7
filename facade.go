package ggc

import "reflect"
import "unsafe"

import "github.com/prataprc/ggc/internal/sysmem"

// Malloc allocates size bytes via the system allocator and returns a
// managed pointer with no finalizer. Returns 0 on failure (after one
// forced-cycle retry).
func (ctx *CollectorContext) Malloc(size int64) uintptr {
	return ctx.MallocExt(size, nil)
}

// MallocExt is Malloc with a finalizer invoked immediately before the
// block is reclaimed.
func (ctx *CollectorContext) MallocExt(size int64, finalizer Finalizer) uintptr {
	ctx.maybeCollect()
	ptr, pool, err := ctx.arena.Alloc(size)
	if err != nil {
		warnf("ggc: malloc failed size:%v err:%v, forcing a cycle", size, err)
		ctx.Run()
		ptr, pool, err = ctx.arena.Alloc(size)
		if err != nil {
			errorf("ggc: malloc failed after retry size:%v err:%v", size, err)
			return 0
		}
	}
	addr := uintptr(ptr)
	ctx.index.putPool(addr, size, finalizer, pool)
	return addr
}

// MallocStatic is MallocExt with the ROOT tag set, so the block stays
// reachable even when unreferenced from the stack.
func (ctx *CollectorContext) MallocStatic(size int64, finalizer Finalizer) uintptr {
	addr := ctx.MallocExt(size, finalizer)
	if addr != 0 {
		ctx.MakeStatic(addr)
	}
	return addr
}

// Calloc allocates count*size bytes, zero-filled, with no finalizer.
func (ctx *CollectorContext) Calloc(count, size int64) uintptr {
	return ctx.CallocExt(count, size, nil)
}

// CallocExt is Calloc with a finalizer.
func (ctx *CollectorContext) CallocExt(count, size int64, finalizer Finalizer) uintptr {
	addr := ctx.MallocExt(count*size, finalizer)
	if addr != 0 {
		zero(addr, count*size)
	}
	return addr
}

// viewbytes reinterprets a raw managed address as a []byte of length n,
// so the zeroing/copying helpers below can work through ordinary slice
// operations instead of manual pointer arithmetic.
func viewbytes(addr uintptr, n int64) (buf []byte) {
	sl := (*reflect.SliceHeader)(unsafe.Pointer(&buf))
	sl.Data, sl.Len, sl.Cap = addr, int(n), int(n)
	return
}

func zero(addr uintptr, n int64) {
	buf := viewbytes(addr, n)
	for i := range buf {
		buf[i] = 0
	}
}

// Realloc resizes a managed block. A nil ptr (0) behaves like Malloc. A
// non-zero ptr not currently managed returns 0, leaving the caller's
// pointer untouched. Otherwise the block is resized in place when the
// new size still fits the same arena size class, or relocated when it
// doesn't — internal/sysmem hands out fixed-size chunks, so growing
// into a different size class always means a fresh chunk and a copy.
// Tag and finalizer are preserved across any relocation.
func (ctx *CollectorContext) Realloc(ptr uintptr, newSize int64) uintptr {
	if ptr == 0 {
		return ctx.Malloc(newSize)
	}
	r := ctx.index.Get(ptr)
	if r == nil {
		warnf("ggc: realloc of unmanaged ptr:%x", ptr)
		return 0
	}

	ctx.maybeCollect()
	if newSize <= r.pool.Size() && sysmem.SuitableSize(ctx.arena.Sizes(), newSize) == r.pool.Size() {
		r.Size = newSize
		return ptr
	}

	newptr, pool, err := ctx.arena.Alloc(newSize)
	if err != nil {
		warnf("ggc: realloc failed size:%v err:%v, forcing a cycle", newSize, err)
		ctx.Run()
		newptr, pool, err = ctx.arena.Alloc(newSize)
		if err != nil {
			errorf("ggc: realloc failed after retry size:%v err:%v", newSize, err)
			return 0
		}
	}
	copysize := r.Size
	if newSize < copysize {
		copysize = newSize
	}
	copybytes(uintptr(newptr), ptr, copysize)

	tag, finalizer := r.tag, r.finalizer
	ctx.index.Remove(ptr, false)
	r.pool.Free(unsafe.Pointer(ptr))
	nr := ctx.index.putPool(uintptr(newptr), newSize, finalizer, pool)
	nr.tag = tag
	return uintptr(newptr)
}

func copybytes(dst, src uintptr, n int64) {
	copy(viewbytes(dst, n), viewbytes(src, n))
}

// Free removes the record for ptr, invokes its finalizer, and releases
// the underlying block. A free on an unmanaged pointer is a no-op.
// Freeing a ROOT-tagged block unconditionally removes it — an explicit
// Free always wins over a block's root status.
func (ctx *CollectorContext) Free(ptr uintptr) {
	r := ctx.index.Remove(ptr, true)
	if r == nil {
		return
	}
	r.pool.Free(unsafe.Pointer(ptr))
}

// Strdup copies s (including a trailing NUL, mirroring C strdup
// semantics) into a freshly Malloc'd block of len(s)+1 bytes.
func (ctx *CollectorContext) Strdup(s string) uintptr {
	n := int64(len(s)) + 1
	addr := ctx.Malloc(n)
	if addr == 0 {
		return 0
	}
	buf := viewbytes(addr, n)
	copy(buf, s)
	buf[n-1] = 0
	return addr
}

// MakeStatic sets the ROOT tag on the record for ptr. A no-op if ptr is
// not managed.
func (ctx *CollectorContext) MakeStatic(ptr uintptr) {
	if r := ctx.index.Get(ptr); r != nil {
		r.setTag(TagRoot)
	}
}
