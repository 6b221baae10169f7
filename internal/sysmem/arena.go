// Package sysmem is ggc's system allocator: a cgo-backed arena of
// fixed-size pools. Arena.Alloc picks the smallest size class able to
// satisfy a request and carves a new pool from the C heap when every
// existing pool of that size is full.
package sysmem

import "fmt"
import "sort"
import "unsafe"

import s "github.com/prataprc/gosettings"
import "github.com/cloudfoundry/gosigar"

// Arena divides a capacity budget into pools of geometrically growing
// fixed chunk sizes.
type Arena struct {
	blocksizes []int64
	mpools     map[int64]pools // size -> sorted list of pool

	capacity  int64 // budget checked against bytes handed out plus each new pool
	minblock  int64
	maxblock  int64
	pcapacity int64 // per-pool capacity ceiling
}

// NewArena creates a new memory arena sized by setts (see Defaultsettings).
// If capacity is 0 the arena sizes itself from a fraction of free system
// memory instead of requiring the caller to guess a number.
func NewArena(capacity int64, setts s.Settings) *Arena {
	minblock, maxblock := setts.Int64("minblock"), setts.Int64("maxblock")
	if capacity <= 0 {
		capacity = defaultcapacity()
	}
	if capacity > Maxarenasize {
		capacity = Maxarenasize
	}
	arena := &Arena{
		blocksizes: Blocksizes(minblock, maxblock),
		mpools:     make(map[int64]pools),
		capacity:   capacity,
		minblock:   minblock,
		maxblock:   maxblock,
		pcapacity:  capacity / 4,
	}
	if int64(len(arena.blocksizes)) > Maxpools {
		panic(fmt.Errorf("sysmem: number of pools in arena exceeds %v", Maxpools))
	}
	for _, size := range arena.blocksizes {
		arena.mpools[size] = make(pools, 0, 4)
	}
	return arena
}

func defaultcapacity() int64 {
	mem := sigar.Mem{}
	if err := mem.Get(); err != nil {
		return 64 * 1024 * 1024
	}
	budget := int64(mem.Free / 4)
	if budget <= 0 {
		return 64 * 1024 * 1024
	}
	if budget > Maxarenasize {
		return Maxarenasize
	}
	return budget
}

// Alloc a chunk of at least n bytes. Returns the chunk and a Pool handle
// that must be used to Free it later.
func (arena *Arena) Alloc(n int64) (unsafe.Pointer, Pool, error) {
	if arena.mpools == nil {
		return nil, Pool{}, fmt.Errorf("sysmem: arena released")
	}
	largest := arena.blocksizes[len(arena.blocksizes)-1]
	if n > largest {
		return nil, Pool{}, ErrPtrTooLarge
	}
	size := SuitableSize(arena.blocksizes, n)
	for _, p := range arena.mpools[size] {
		if ptr, ok := p.alloc(); ok {
			return ptr, Pool{size: size, p: p}, nil
		}
	}
	// every pool of this size is full (or none exist yet): create one.
	numblocks := (arena.capacity / int64(len(arena.blocksizes))) / size
	if numblocks*size > arena.pcapacity {
		numblocks = arena.pcapacity / size
	}
	if numblocks > Maxchunks {
		numblocks = Maxchunks
	}
	if numblocks < 8 {
		numblocks = 8
	}
	if rem := numblocks & 0x7; rem > 0 {
		numblocks = (numblocks >> 3) << 3
	}
	if allocated := arena.allocatedBytes() + numblocks*size; allocated > arena.capacity {
		return nil, Pool{}, ErrOutofMemory
	}
	p := newpool(size, numblocks)
	arena.mpools[size] = append(arena.mpools[size], p)
	sort.Sort(arena.mpools[size])
	ptr, _ := p.alloc()
	return ptr, Pool{size: size, p: p}, nil
}

// Sizes returns the arena's size classes, smallest first.
func (arena *Arena) Sizes() []int64 { return arena.blocksizes }

// Release every pool and its underlying C allocation. Not reversible.
func (arena *Arena) Release() {
	for _, ps := range arena.mpools {
		for _, p := range ps {
			p.release()
		}
	}
	arena.blocksizes, arena.mpools = nil, nil
}

func (arena *Arena) allocatedBytes() int64 {
	var allocated int64
	for _, ps := range arena.mpools {
		for _, p := range ps {
			allocated += p.allocated
		}
	}
	return allocated
}

// Memory reports overhead (arena/pool bookkeeping) and useful (capacity
// carved into pools) bytes.
func (arena *Arena) Memory() (overhead, useful int64) {
	self := int64(unsafe.Sizeof(*arena))
	overhead += self
	for _, ps := range arena.mpools {
		for _, p := range ps {
			o, u := p.memory()
			overhead += o
			useful += u
		}
	}
	return
}

// Allocated bytes currently handed out to the application.
func (arena *Arena) Allocated() int64 {
	return arena.allocatedBytes()
}

// Available returns the remaining capacity budget.
func (arena *Arena) Available() int64 {
	return arena.capacity - arena.Allocated()
}

// Utilization reports, per size class, the percentage of carved capacity
// currently allocated.
func (arena *Arena) Utilization() ([]int, []float64) {
	sizes := make([]int, 0, len(arena.blocksizes))
	for _, size := range arena.blocksizes {
		sizes = append(sizes, int(size))
	}
	sort.Ints(sizes)

	ss, zs := make([]int, 0), make([]float64, 0)
	for _, size := range sizes {
		capacity, allocated := float64(0), float64(0)
		for _, p := range arena.mpools[int64(size)] {
			_, useful := p.memory()
			capacity += float64(useful)
			allocated += float64(p.allocated)
		}
		if capacity > 0 {
			ss = append(ss, size)
			zs = append(zs, (allocated/capacity)*100)
		}
	}
	return ss, zs
}

// SuitableSize returns the smallest entry in sizes (assumed sorted
// ascending) that is >= size, or the largest entry if size exceeds
// every class. Arena.Alloc uses this to map a request onto one of the
// arena's fixed pool sizes.
func SuitableSize(sizes []int64, size int64) int64 {
	idx := sort.Search(len(sizes), func(i int) bool { return sizes[i] >= size })
	if idx == len(sizes) {
		idx = len(sizes) - 1
	}
	return sizes[idx]
}

// Blocksizes computes the geometric series of pool size classes between
// minblock and maxblock. Each class is the first step (see growClass)
// above the previous one at which half the gap between them — the
// average waste for a request rounded up into it — reaches
// 1-MEMUtilization of the class size; this keeps the number of distinct
// pools small without handing out chunks wildly bigger than what was
// asked for.
func Blocksizes(minblock, maxblock int64) []int64 {
	if maxblock < minblock {
		panic("sysmem: minblock > maxblock")
	}
	if minblock%Sizeinterval != 0 {
		panic(fmt.Errorf("sysmem: minblock is not a multiple of %v", Sizeinterval))
	}
	if maxblock%Sizeinterval != 0 {
		panic(fmt.Errorf("sysmem: maxblock is not a multiple of %v", Sizeinterval))
	}

	classes := make([]int64, 0, Maxpools)
	for size := minblock; size < maxblock; size = growClass(size) {
		classes = append(classes, size)
	}
	return append(classes, maxblock)
}

// growClass returns the next size class above size, large enough that
// the midpoint between size and the new class is still within
// MEMUtilization of the new class. A floor of 32 bytes keeps the series
// moving for small classes where the percentage-based step would
// otherwise round down to nothing.
func growClass(size int64) int64 {
	step := int64(float64(size) * (1.0 - MEMUtilization))
	if step < 32 {
		step = 32
	}
	next := size + step
	for (float64(size+next)/2.0)/float64(next) > MEMUtilization {
		next += step
	}
	return next
}
