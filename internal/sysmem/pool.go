package sysmem

//#include <stdlib.h>
import "C"

import "fmt"
import "unsafe"

// pool manages a single cgo-backed memory block sliced into equal sized
// chunks, tracked with a free-list stack of chunk indices for O(1)
// alloc/free. Not safe for concurrent use — callers serialize through
// the owning Arena.
type pool struct {
	// stats
	allocated int64

	capacity int64          // total bytes managed by this pool
	size     int64          // fixed chunk size in this pool
	base     unsafe.Pointer // pool's base pointer, from C.malloc
	freelist []uint16       // stack of free chunk indices
	freeoff  int
}

// newpool carves a block of n chunks of size bytes each from the C heap.
func newpool(size, n int64) *pool {
	if (n & 0x7) != 0 {
		panic("sysmem: pool block count must be a multiple of 8")
	} else if n > Maxchunks {
		panic(fmt.Errorf("sysmem: cannot have more than %v chunks in a pool", Maxchunks))
	}
	capacity := size * n
	p := &pool{
		capacity: capacity,
		size:     size,
		base:     C.malloc(C.size_t(capacity)),
		freelist: make([]uint16, n),
		freeoff:  int(n - 1),
	}
	for i := int64(0); i < n; i++ {
		p.freelist[i] = uint16(i)
	}
	return p
}

// alloc one chunk, O(1).
func (p *pool) alloc() (unsafe.Pointer, bool) {
	if p.allocated == p.capacity {
		return nil, false
	}
	nth := int64(p.freelist[p.freeoff])
	p.freelist = p.freelist[:p.freeoff]
	p.freeoff--
	ptr := uintptr(p.base) + uintptr(nth*p.size)
	if mask := uintptr(Alignment - 1); ptr&mask != 0 {
		panic(fmt.Errorf("sysmem: allocated pointer not %v byte aligned", Alignment))
	}
	p.allocated += p.size
	return unsafe.Pointer(ptr), true
}

// free one chunk back to the pool, O(1).
func (p *pool) free(ptr unsafe.Pointer) {
	if ptr == nil {
		panic("sysmem: pool.free(nil)")
	}
	diff := uint64(uintptr(ptr) - uintptr(p.base))
	if diff%uint64(p.size) != 0 {
		panic(fmt.Errorf("sysmem: pool.free(): unaligned pointer %x for size %v", diff, p.size))
	}
	nth := uint16(diff / uint64(p.size))
	p.freelist = append(p.freelist, nth)
	p.freeoff++
	p.allocated -= p.size
}

// release this pool's backing C allocation. Not reversible.
func (p *pool) release() {
	C.free(p.base)
	p.freelist, p.freeoff = nil, -1
	p.capacity, p.base, p.allocated = 0, nil, 0
}

func (p *pool) less(other *pool) bool {
	return uintptr(p.base) < uintptr(other.base)
}

func (p *pool) memory() (overhead, useful int64) {
	self := int64(unsafe.Sizeof(*p))
	slicesz := int64(cap(p.freelist)) * int64(unsafe.Sizeof(uint16(0)))
	return self + slicesz, p.capacity
}

// pools is sortable on base-pointer, so Arena.Utilization and friends
// can walk each size class's pools in a stable order.
type pools []*pool

func (ps pools) Len() int           { return len(ps) }
func (ps pools) Less(i, j int) bool { return ps[i].less(ps[j]) }
func (ps pools) Swap(i, j int)      { ps[i], ps[j] = ps[j], ps[i] }

// Pool is the handle an AllocationRecord keeps so that a later Free can
// route back to the correct size-class pool instead of a raw C.free,
// since pool.free() must un-mark the chunk in its own free list.
type Pool struct {
	size int64
	p    *pool
}

// Size returns the size class (not the requested size) this chunk was
// carved from.
func (h Pool) Size() int64 { return h.size }

// Free releases the chunk back to its owning pool.
func (h Pool) Free(ptr unsafe.Pointer) {
	h.p.free(ptr)
}
